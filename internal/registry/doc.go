// Package registry provides the central "glue" for the mission module system.
//
// The Registry holds two load-time tables. The descriptor table is the
// ordered list of mission modules together with the lifecycle phases and
// roles each one participates in; declaration order is significant and is
// preserved by every listing. The handler table maps canonical function
// paths (see funcpath) to the compiled Go functions that implement them.
//
// Both tables are populated during process setup and sealed before the
// lifecycle orchestrator begins dispatch. Registration after sealing is a
// programmer error and is rejected.
package registry
