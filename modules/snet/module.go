// Package snet is the mission's social-feed component. The server seeds
// the feed in the document store and replicates the feed cursor so clients
// know how much there is to read.
package snet

import (
	"context"
	"fmt"

	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
	"github.com/vk/forgeos/modules/dbmod"
)

const component = "snet"

// Module wires the snet component into a registry.
type Module struct {
	Vars *scopes.Store
	// Seed is the initial feed content the server publishes. Optional.
	Seed []string
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) error {
	prefix := r.Namespace()
	if err := r.RegisterEntry(component, funcpath.EntryPreInit, m.preInit(prefix)); err != nil {
		return err
	}
	return r.RegisterEntry(component, funcpath.EntryPostInitServer, m.postInitServer(prefix))
}

func (m *Module) preInit(prefix string) registry.Func {
	return func(ctx context.Context) error {
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_snet_cursor", 0, false)
		return nil
	}
}

func (m *Module) postInitServer(prefix string) registry.Func {
	return func(ctx context.Context) error {
		store := dbmod.FromScope(m.Vars, prefix)
		if store == nil {
			return fmt.Errorf("snet requires the db module's store")
		}
		for i, post := range m.Seed {
			name := fmt.Sprintf("post_%04d", i)
			if err := store.Put(ctx, component, name, post); err != nil {
				return err
			}
		}
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_snet_cursor", len(m.Seed), true)
		return nil
	}
}
