package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/forgeos/internal/config"
	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/lifecycle"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/replication"
	"github.com/vk/forgeos/internal/replication/socketio"
	"github.com/vk/forgeos/internal/scopes"
	"github.com/vk/forgeos/modules/dbmod"
)

// App encapsulates one process's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	cfg    *Config
	logger *slog.Logger

	model    *config.Model
	registry *registry.Registry
	vars     *scopes.Store
	orch     *lifecycle.Orchestrator

	relay *socketio.Transport
	dbMod *dbmod.Module
}

// New constructs a fully wired App. Every error here is a setup-time
// error: the process must not start dispatching phases on top of it.
//
// Passing a non-nil transport bypasses the RelayURL dial; tests use this
// to join processes over an in-memory bus. Passing modules overrides the
// compiled-in core set.
func New(outW io.Writer, cfg *Config, loader config.Loader, transport replication.Transport, mods ...registry.Module) (*App, error) {
	logger := newLogger(cfg, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.MissionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load mission manifest: %w", err)
	}

	vars := scopes.New(nil)

	a := &App{
		outW:   outW,
		cfg:    cfg,
		logger: logger,
		model:  model,
		vars:   vars,
	}

	if transport == nil && cfg.RelayURL != "" {
		relay, err := socketio.Dial(ctx, socketio.Options{
			URL:       cfg.RelayURL,
			Namespace: "/" + model.Mission.Prefix,
		}, vars)
		if err != nil {
			return nil, fmt.Errorf("failed to join replication relay: %w", err)
		}
		a.relay = relay
		transport = relay
	}
	vars.AttachTransport(transport)

	reg := registry.New(model.Mission.Prefix)
	if len(mods) == 0 {
		mods = coreModules(cfg, model, vars)
	}
	for _, mod := range mods {
		if dbm, ok := mod.(*dbmod.Module); ok {
			a.dbMod = dbm
		}
		if err := mod.Register(reg); err != nil {
			return nil, fmt.Errorf("module registration failed: %w", err)
		}
	}
	logger.Debug("All mission modules registered.", "count", len(mods))

	for _, def := range model.Modules {
		roles := make([]registry.Role, 0, len(def.PostInit))
		for _, name := range def.PostInit {
			role, err := registry.ParseRole(name)
			if err != nil {
				return nil, fmt.Errorf("module %q: %w", def.Name, err)
			}
			roles = append(roles, role)
		}
		if err := reg.Register(registry.Descriptor{
			Name:          def.Name,
			PreInit:       def.PreInit,
			PostInitRoles: roles,
		}); err != nil {
			return nil, err
		}
	}
	logger.Debug("Module descriptor table registered.", "modules", reg.Len())

	opts := lifecycle.Options{
		CompileCacheEnabled: model.Settings.CompileCache,
		DebugLogging:        model.Settings.DebugLogging,
	}
	if cfg.DisableCompileCache {
		opts.CompileCacheEnabled = false
	}
	a.registry = reg
	a.orch = lifecycle.New(reg, lifecycle.RegistryProvider{Registry: reg}, opts)
	return a, nil
}

// Registry returns the application's registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Vars returns the process's variable scope store.
func (a *App) Vars() *scopes.Store { return a.vars }

// Model returns the loaded mission manifest model, read-only.
func (a *App) Model() *config.Model { return a.model }

// Orchestrator returns the lifecycle orchestrator. This is primarily for
// testing.
func (a *App) Orchestrator() *lifecycle.Orchestrator { return a.orch }

// Close releases the process's external resources: the relay connection
// and the mission store.
func (a *App) Close() error {
	if a.relay != nil {
		a.relay.Close()
	}
	if a.dbMod != nil {
		return a.dbMod.Close()
	}
	return nil
}
