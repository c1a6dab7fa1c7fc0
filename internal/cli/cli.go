package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/forgeos/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("forgeos", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
forgeos - mission lifecycle and variable scope runtime.

Usage:
  forgeos [options] [MISSION_PATH]

Arguments:
  MISSION_PATH
    Path to a mission.hcl manifest or a directory containing manifest files.

Options:
`)
		flagSet.PrintDefaults()
	}

	missionFlag := flagSet.String("mission", "", "Path to the mission manifest file or directory.")
	mFlag := flagSet.String("m", "", "Path to the mission manifest file or directory (shorthand).")
	roleFlag := flagSet.String("role", "", "Process role: 'server', 'client', or 'solo'. Defaults to FORGEOS_ROLE, then 'solo'.")
	relayFlag := flagSet.String("relay-url", "", "socket.io replication relay URL. Empty disables replication.")
	storeFlag := flagSet.String("store-path", "", "Path to the mission sqlite store. Empty keeps it in memory.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	noCacheFlag := flagSet.Bool("no-compile-cache", false, "Recompile function bodies on every resolution (debug).")
	callFlag := flagSet.String("call", "", "Canonical function path to invoke after initialization (debug).")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *missionFlag != "" {
		path = *missionFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Mission path determined.", "path", path)

	if path == "" {
		slog.Debug("No mission path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		MissionPath:         path,
		Role:                strings.ToLower(*roleFlag),
		RelayURL:            *relayFlag,
		StorePath:           *storeFlag,
		LogFormat:           logFormat,
		LogLevel:            logLevel,
		DisableCompileCache: *noCacheFlag,
		Call:                *callFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
