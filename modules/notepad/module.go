// Package notepad is the mission's notepad component. Note contents are
// per-player state: each client loads its note from the document store into
// its own object scope.
package notepad

import (
	"context"

	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
	"github.com/vk/forgeos/modules/dbmod"
)

const component = "notepad"

// Owner is the object-scope owner a client's note binds to.
const Owner = "player:local"

// Module wires the notepad component into a registry.
type Module struct {
	Vars *scopes.Store
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) error {
	return r.RegisterEntry(component, funcpath.EntryPostInitClient,
		m.postInitClient(r.Namespace()))
}

func (m *Module) postInitClient(prefix string) registry.Func {
	return func(ctx context.Context) error {
		body := ""
		if store := dbmod.FromScope(m.Vars, prefix); store != nil {
			saved, found, err := store.Get(ctx, component, "note")
			if err != nil {
				return err
			}
			if found {
				body = saved
			}
		}
		m.Vars.Set(ctx, scopes.Object(Owner), "notepad_text", body, false)
		return nil
	}
}
