// Package calendar is the mission's calendar component. It keeps the
// in-mission date in the mission scope and the shared schedule in the
// document store.
package calendar

import (
	"context"
	"time"

	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/scopes"
	"github.com/vk/forgeos/modules/dbmod"
)

const component = "calendar"

// DateLayout is the wire format of the mission date.
const DateLayout = "2006-01-02"

// Module wires the calendar component into a registry.
type Module struct {
	Vars *scopes.Store
	// Now is swappable for tests. Defaults to time.Now.
	Now func() time.Time
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) error {
	prefix := r.Namespace()
	if err := r.RegisterEntry(component, funcpath.EntryPreInit, m.preInit(prefix)); err != nil {
		return err
	}
	return r.RegisterEntry(component, funcpath.EntryPostInitServer, m.postInitServer(prefix))
}

func (m *Module) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Module) preInit(prefix string) registry.Func {
	return func(ctx context.Context) error {
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_calendar_date",
			m.now().Format(DateLayout), false)
		return nil
	}
}

func (m *Module) postInitServer(prefix string) registry.Func {
	return func(ctx context.Context) error {
		date := m.now().Format(DateLayout)

		// The authoritative date is replicated so every client agrees.
		m.Vars.Set(ctx, scopes.Mission(), prefix+"_calendar_date", date, true)

		if store := dbmod.FromScope(m.Vars, prefix); store != nil {
			return store.Put(ctx, component, "schedule", date+": mission start")
		}
		return nil
	}
}
