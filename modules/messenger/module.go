// Package messenger is the mission's messenger component. The server
// provisions the shared inbox in the document store; each client binds its
// local inbox cursor.
package messenger

import (
	"context"
	"fmt"

	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
	"github.com/vk/forgeos/modules/dbmod"
)

const component = "messenger"

// Module wires the messenger component into a registry.
type Module struct {
	Vars *scopes.Store
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) error {
	prefix := r.Namespace()
	if err := r.RegisterEntry(component, funcpath.EntryPostInit, m.postInit(prefix)); err != nil {
		return err
	}
	if err := r.RegisterEntry(component, funcpath.EntryPostInitServer, m.postInitServer(prefix)); err != nil {
		return err
	}
	return r.RegisterEntry(component, funcpath.EntryPostInitClient, m.postInitClient(prefix))
}

func (m *Module) postInit(prefix string) registry.Func {
	return func(ctx context.Context) error {
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_messenger_ready", true, false)
		return nil
	}
}

func (m *Module) postInitServer(prefix string) registry.Func {
	return func(ctx context.Context) error {
		store := dbmod.FromScope(m.Vars, prefix)
		if store == nil {
			return fmt.Errorf("messenger requires the db module's store")
		}
		motd, _ := m.Vars.Get(scopes.Mission(), "motd", "").(string)
		if motd == "" {
			motd = "welcome"
		}
		if err := store.Put(ctx, component, "msg_0000", motd); err != nil {
			return err
		}
		// Announce the inbox so clients know where to start reading.
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_messenger_head", "msg_0000", true)
		return nil
	}
}

func (m *Module) postInitClient(prefix string) registry.Func {
	return func(ctx context.Context) error {
		head := m.Vars.Get(scopes.Mission(), prefix+"_messenger_head", "")
		m.Vars.Set(ctx, scopes.Object("player:local"), "messenger_cursor", head, false)
		ctxlog.FromContext(ctx).Debug("Messenger inbox bound", "head", head)
		return nil
	}
}
