// Package schema holds the HCL-tagged structs a mission manifest decodes
// into. The hcl loader translates these into the format-agnostic config
// model; nothing outside the loader should depend on this package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// MissionBlock is the `mission` block: the registration descriptor the
// hosting environment uses to locate and launch the mission.
type MissionBlock struct {
	Name      string `hcl:"name"`
	Prefix    string `hcl:"prefix"`
	Directory string `hcl:"directory"`
}

// VersionBlock is the four-part `version` block.
type VersionBlock struct {
	Major int `hcl:"major"`
	Minor int `hcl:"minor"`
	Patch int `hcl:"patch"`
	Build int `hcl:"build,optional"`
}

// OptionsBlock is the `options` block configuring the orchestrator.
// Pointer fields distinguish "omitted" from "set to the zero value".
type OptionsBlock struct {
	CompileCache *bool `hcl:"compile_cache,optional"`
	DebugLogging *bool `hcl:"debug_logging,optional"`
}

// VarsBlock is the `vars` block: arbitrary attributes seeded into the
// mission-global scope before any phase runs.
type VarsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// ModuleBlock is one `module "<name>"` block of the descriptor table.
// Block order in the manifest is the dispatch order.
type ModuleBlock struct {
	Name     string   `hcl:"name,label"`
	PreInit  bool     `hcl:"pre_init,optional"`
	PostInit []string `hcl:"post_init,optional"`
}

// MissionConfig is the top-level structure of a mission manifest.
type MissionConfig struct {
	Mission *MissionBlock  `hcl:"mission,block"`
	Version *VersionBlock  `hcl:"version,block"`
	Options *OptionsBlock  `hcl:"options,block"`
	Vars    *VarsBlock     `hcl:"vars,block"`
	Modules []*ModuleBlock `hcl:"module,block"`
	Body    hcl.Body       `hcl:",remain"`
}
