// Package app wires a forgeos process together: logger, mission manifest,
// registry, scope store, replication transport, and the lifecycle
// orchestrator. It owns startup ordering and the fatal-versus-degraded
// split: manifest and registry errors stop the process before any phase
// runs, while per-module faults during a phase are logged and carried as
// degraded state.
package app
