// Package lifecycle implements the phased init dispatcher for mission
// modules.
//
// Each process runs the same two-phase sequence. Pre-init invokes every
// module that declares it, in registry order, regardless of role. Post-init
// then runs once per role the process holds, in the fixed role order main,
// server, client, again walking modules in registry order within each role.
// Invocations are synchronous and single-threaded; a phase never starts
// before the previous one has fully completed on that process.
//
// Function bodies are compiled at most once per process through a Provider
// and cached by canonical path. A module whose body fails to compile is
// marked degraded and skipped, but never takes its siblings down with it.
package lifecycle
