package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything an App instance needs to run. CLI flags populate
// it first; environment variables fill whatever the flags left empty.
type Config struct {
	// MissionPath is a mission.hcl file or a directory of manifest files.
	MissionPath string

	// Role is the machine class of this process: "server", "client", or
	// "solo" for a non-networked run.
	Role string

	LogFormat string
	LogLevel  string

	// RelayURL points at the socket.io replication relay. Empty disables
	// replication; persistent writes then stay local.
	RelayURL string

	// StorePath locates the db module's sqlite file. Empty keeps the
	// store in memory.
	StorePath string

	// DisableCompileCache forces recompilation on every function
	// resolution. Debug only; overrides the manifest's options block.
	DisableCompileCache bool

	// Call names a canonical function path to resolve and invoke after
	// initialization completes. Debug tool.
	Call string
}

// envConfig is the environment binding of Config.
type envConfig struct {
	Role      string `env:"FORGEOS_ROLE"`
	LogLevel  string `env:"FORGEOS_LOG_LEVEL"`
	LogFormat string `env:"FORGEOS_LOG_FORMAT"`
	RelayURL  string `env:"FORGEOS_RELAY_URL"`
	StorePath string `env:"FORGEOS_STORE_PATH"`
}

// NewConfig validates cfg and applies environment overrides for fields the
// caller left empty.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.MissionPath == "" {
		return nil, errors.New("MissionPath is a required configuration field and cannot be empty")
	}

	var envCfg envConfig
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.Role == "" {
		cfg.Role = envCfg.Role
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = envCfg.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envCfg.LogFormat
	}
	if cfg.RelayURL == "" {
		cfg.RelayURL = envCfg.RelayURL
	}
	if cfg.StorePath == "" {
		cfg.StorePath = envCfg.StorePath
	}

	if _, err := RolesFor(cfg.Role); err != nil {
		return nil, err
	}

	return &cfg, nil
}
