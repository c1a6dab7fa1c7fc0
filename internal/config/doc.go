// Package config defines the format-agnostic model of a mission manifest.
//
// The manifest is the static table the core reads once at startup: the
// mission registration descriptor (identity and install directory), the
// four-part version, orchestrator options, seed variables, and the ordered
// list of module descriptors. A format-specific Loader (see internal/hcl)
// translates manifest files into this model.
package config
