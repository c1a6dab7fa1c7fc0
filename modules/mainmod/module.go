// Package mainmod is the mission's main component. Its pre-init seeds the
// mission scope from the manifest and stages loader state in the parsing
// scope; its main post-init discards that parsing context and flips the
// readiness flags the other processes look for.
package mainmod

import (
	"context"

	"github.com/vk/forgeos/internal/config"
	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
)

const component = "main"

// Module wires the main component into a registry.
type Module struct {
	Vars  *scopes.Store
	Model *config.Model
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) error {
	prefix := r.Namespace()
	steps := []struct {
		entry string
		fn    registry.Func
	}{
		{funcpath.EntryPreInit, m.preInit(prefix)},
		{funcpath.EntryPostInit, m.postInit(prefix)},
		{funcpath.EntryPostInitServer, m.postInitServer(prefix)},
		{funcpath.EntryPostInitClient, m.postInitClient(prefix)},
	}
	for _, s := range steps {
		if err := r.RegisterEntry(component, s.entry, s.fn); err != nil {
			return err
		}
	}
	return r.RegisterFunction(component, "version_banner", m.versionBanner(prefix))
}

func (m *Module) preInit(prefix string) registry.Func {
	return func(ctx context.Context) error {
		// Manifest vars land in the mission scope before anything reads them.
		for key, value := range m.Model.Vars {
			m.Vars.Set(ctx, scopes.Mission(), key, value, false)
		}
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_mission_name", m.Model.Mission.Name, false)
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_version", m.Model.Version.String(), false)

		// Loader bookkeeping lives in the parsing scope until post-init.
		m.Vars.Set(ctx, scopes.Parsing(), prefix+"_loading", true, false)
		return nil
	}
}

func (m *Module) postInit(prefix string) registry.Func {
	return func(ctx context.Context) error {
		m.Vars.Drop(scopes.Parsing())
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_main_ready", true, false)
		return nil
	}
}

func (m *Module) postInitServer(prefix string) registry.Func {
	return func(ctx context.Context) error {
		// Clients learn the server is up through the replicated flag.
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_server_ready", true, true)
		return nil
	}
}

func (m *Module) postInitClient(prefix string) registry.Func {
	return func(ctx context.Context) error {
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_client_ready", true, false)
		return nil
	}
}

func (m *Module) versionBanner(prefix string) registry.Func {
	return func(ctx context.Context) error {
		ctxlog.FromContext(ctx).Info("Mission version",
			"mission", m.Vars.Get(scopes.Mission(), prefix+"_mission_name", "?"),
			"version", m.Vars.Get(scopes.Mission(), prefix+"_version", "?"))
		return nil
	}
}
