package app

import (
	"context"
	"fmt"

	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/funcpath"
)

// Run executes the two-phase mission lifecycle for this process's role
// set. Per-module faults surface only as degraded-module log lines; an
// error here means the lifecycle itself could not run.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	roles, err := RolesFor(a.cfg.Role)
	if err != nil {
		return err
	}
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.String())
	}
	a.logger.Info("Mission initializing.",
		"mission", a.model.Mission.Name,
		"version", a.model.Version.String(),
		"roles", roleNames)

	if err := a.orch.Run(ctx, roles); err != nil {
		return fmt.Errorf("lifecycle dispatch failed: %w", err)
	}

	for name, degErr := range a.orch.Degraded() {
		a.logger.Warn("Module is degraded for the rest of this process.",
			"module", name, "error", degErr)
	}

	if a.cfg.Call != "" {
		if err := a.call(ctx, a.cfg.Call); err != nil {
			return err
		}
	}

	a.logger.Info("Mission initialized.", "degraded", len(a.orch.Degraded()))
	return nil
}

// call resolves and invokes a named function after initialization, the
// CLI's debug hook into the compiled-function cache.
func (a *App) call(ctx context.Context, raw string) error {
	path, err := funcpath.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid function path %q: %w", raw, err)
	}
	fn, err := a.orch.Resolve(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", raw, err)
	}
	return fn(ctx)
}
