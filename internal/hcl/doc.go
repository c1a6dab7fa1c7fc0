// Package hcl implements the HCL-backed mission manifest loader. It parses
// one or more .hcl files, decodes them against the schema package, and
// translates the result into the format-agnostic config model consumed by
// the rest of the framework.
package hcl
