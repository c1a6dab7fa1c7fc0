package config

import (
	"context"
	"fmt"
)

// Model is the unified, format-agnostic representation of a mission
// manifest. It is read once at startup and never mutated afterwards.
type Model struct {
	Mission  *Mission
	Version  Version
	Settings Settings
	// Vars seeds the mission-global variable scope before any phase runs.
	Vars map[string]any
	// Modules is the ordered module descriptor table. Order is significant:
	// the lifecycle dispatches modules in exactly this order within each
	// phase.
	Modules []*ModuleDefinition
}

// Mission is the registration descriptor exposed to the hosting
// environment: where the mission is installed and what it is called. It
// carries no behavior.
type Mission struct {
	Name      string
	Prefix    string
	Directory string
}

// Version is the four-part mission version. It is metadata only; no
// runtime logic depends on it.
type Version struct {
	Major int
	Minor int
	Patch int
	Build int
}

// String renders the version as MAJOR.MINOR.PATCH.BUILD.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
}

// Settings holds the orchestrator options declared in the manifest.
type Settings struct {
	CompileCache bool
	DebugLogging bool
}

// DefaultSettings returns the settings used when the manifest omits the
// options block.
func DefaultSettings() Settings {
	return Settings{CompileCache: true}
}

// ModuleDefinition is one row of the module descriptor table. PostInit
// holds role names ("main", "server", "client"); the app translates them
// into registry roles.
type ModuleDefinition struct {
	Name     string
	PreInit  bool
	PostInit []string
}

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load reads the manifest at path, which may be a single file or a
	// directory of manifest files, and translates it into the model.
	Load(ctx context.Context, path string) (*Model, error)
}
