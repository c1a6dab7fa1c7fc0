// Package scopes implements the variable scope store: a small set of named
// namespaces holding key/value bindings that mission module code reads and
// writes during and after initialization.
//
// Three scope kinds exist. The mission scope is global to the run and is
// the only state genuinely shared across processes: writes flagged
// persistent are mirrored to every other participating process through a
// replication.Transport. The object scope holds per-entity state keyed by
// an owner identifier and dies with its owner. The parsing scope is a
// transient context discarded when loading finishes.
//
// A missing binding is not an error; Get returns the caller's default.
package scopes

import (
	"context"
	"sync"

	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/replication"
)

// Kind discriminates the scope union.
type Kind uint8

const (
	// KindMission is the mission-global namespace.
	KindMission Kind = iota
	// KindObject is a per-entity namespace keyed by owner.
	KindObject
	// KindParsing is the transient parsing-context namespace.
	KindParsing
)

// Scope names one namespace in the store. Construct values with Mission,
// Object, or Parsing; the required scope argument on every call replaces
// the ambient default namespace of older mission frameworks.
type Scope struct {
	kind  Kind
	owner string
}

// Mission returns the mission-global scope.
func Mission() Scope { return Scope{kind: KindMission} }

// Object returns the scope owned by the given entity.
func Object(owner string) Scope { return Scope{kind: KindObject, owner: owner} }

// Parsing returns the transient parsing-context scope.
func Parsing() Scope { return Scope{kind: KindParsing} }

// Kind returns the scope's discriminator.
func (s Scope) Kind() Kind { return s.kind }

// String returns the canonical scope name used on the replication wire.
func (s Scope) String() string {
	switch s.kind {
	case KindMission:
		return "mission"
	case KindObject:
		return "object:" + s.owner
	case KindParsing:
		return "parsing"
	default:
		return "unknown"
	}
}

// Store holds every scope's bindings for one process.
//
// The store is written from module init functions (single-threaded per
// process) and from the replication transport's delivery goroutines, so all
// access goes through sync.Map. The transport is fire-and-forget: Set never
// learns whether a persistent write reached anyone.
type Store struct {
	scopes    sync.Map // scope string -> *sync.Map of key -> value
	transport replication.Transport
}

// New creates a store whose persistent writes are published through the
// given transport. Pass replication.Nop{} for a non-networked process.
func New(transport replication.Transport) *Store {
	if transport == nil {
		transport = replication.Nop{}
	}
	return &Store{transport: transport}
}

// AttachTransport swaps the transport persistent writes publish through.
// Call during process setup only, before any module code runs.
func (s *Store) AttachTransport(transport replication.Transport) {
	if transport == nil {
		transport = replication.Nop{}
	}
	s.transport = transport
}

func (s *Store) bindings(scope string) *sync.Map {
	if m, ok := s.scopes.Load(scope); ok {
		return m.(*sync.Map)
	}
	m, _ := s.scopes.LoadOrStore(scope, &sync.Map{})
	return m.(*sync.Map)
}

// Get returns the value bound to (scope, key), or def when no binding
// exists. Absence is not an error.
func (s *Store) Get(scope Scope, key string, def any) any {
	m, ok := s.scopes.Load(scope.String())
	if !ok {
		return def
	}
	v, ok := m.(*sync.Map).Load(key)
	if !ok {
		return def
	}
	return v
}

// Set binds value to (scope, key), overwriting any previous binding. When
// persistent is true the write is additionally published to the other
// participating processes; delivery is eventual and unacknowledged.
func (s *Store) Set(ctx context.Context, scope Scope, key string, value any, persistent bool) {
	s.bindings(scope.String()).Store(key, value)
	if !persistent {
		return
	}
	ctxlog.FromContext(ctx).Debug("Publishing persistent variable write.",
		"scope", scope.String(), "key", key)
	s.transport.Publish(ctx, replication.Record{
		Scope: scope.String(),
		Key:   key,
		Value: value,
	})
}

// Drop removes every binding under the scope, as when the owning object is
// destroyed or the parsing context is discarded.
func (s *Store) Drop(scope Scope) {
	s.scopes.Delete(scope.String())
}

// ApplyRemote installs a record delivered from another process. Last
// delivered write wins; there is no merge. Remote applications are never
// re-published, so records cannot echo around the transport.
func (s *Store) ApplyRemote(rec replication.Record) {
	s.bindings(rec.Scope).Store(rec.Key, rec.Value)
}
