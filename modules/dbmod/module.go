// Package dbmod is the mission's database-backed store module. Its
// pre-init provisions a sqlite document store and publishes the handle into
// the mission scope, where later modules find it during post-init. The
// module therefore has to precede its readers in the manifest's module
// table.
package dbmod

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
)

const component = "db"

// ScopeKey returns the mission-scope key the store handle is published
// under for the given mission prefix.
func ScopeKey(prefix string) string {
	return prefix + "_db"
}

// FromScope fetches the store handle published by pre-init. It returns nil
// when the db module has not run or is degraded; readers must cope.
func FromScope(vars *scopes.Store, prefix string) *Store {
	s, _ := vars.Get(scopes.Mission(), ScopeKey(prefix), nil).(*Store)
	return s
}

// Module wires the db component into a registry.
type Module struct {
	Vars *scopes.Store
	// Path locates the sqlite file. Empty means an in-memory store.
	Path string

	store *Store
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) error {
	prefix := r.Namespace()
	if err := r.RegisterEntry(component, funcpath.EntryPreInit, m.preInit(prefix)); err != nil {
		return err
	}
	if err := r.RegisterEntry(component, funcpath.EntryPostInitServer, m.postInitServer); err != nil {
		return err
	}
	return r.RegisterFunction(component, "store_path", func(ctx context.Context) error {
		ctxlog.FromContext(ctx).Info("Mission store location", "path", m.path())
		return nil
	})
}

func (m *Module) path() string {
	if m.Path == "" {
		return ":memory:"
	}
	return m.Path
}

func (m *Module) preInit(prefix string) registry.Func {
	return func(ctx context.Context) error {
		store, err := Open(m.path())
		if err != nil {
			return err
		}
		m.store = store
		m.Vars.Set(ctx, scopes.Mission(), ScopeKey(prefix), store, false)
		ctxlog.FromContext(ctx).Info("Mission store ready", "path", m.path())
		return nil
	}
}

func (m *Module) postInitServer(ctx context.Context) error {
	if m.store == nil {
		return fmt.Errorf("mission store was not provisioned")
	}
	return m.store.Put(ctx, component, "boot",
		time.Now().UTC().Format(time.RFC3339))
}

// Close releases the store. The app calls this on shutdown.
func (m *Module) Close() error {
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}
