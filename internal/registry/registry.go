package registry

import (
	"errors"
	"fmt"
	"slices"
)

// Role identifies which machine class a process represents.
type Role uint8

const (
	// RoleMain runs on every process, regardless of network topology.
	RoleMain Role = iota
	// RoleServer runs only on the authoritative server process.
	RoleServer
	// RoleClient runs only on connected client processes.
	RoleClient
)

// String returns the lowercase name of the role.
func (r Role) String() string {
	switch r {
	case RoleMain:
		return "main"
	case RoleServer:
		return "server"
	case RoleClient:
		return "client"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole converts a role name from configuration into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "main":
		return RoleMain, nil
	case "server":
		return RoleServer, nil
	case "client":
		return RoleClient, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// Phase identifies a lifecycle phase.
type Phase uint8

const (
	// PhasePreInit runs once on every process before anything else.
	PhasePreInit Phase = iota
	// PhasePostInit runs once per applicable role, after pre-init completes.
	PhasePostInit
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case PhasePreInit:
		return "pre_init"
	case PhasePostInit:
		return "post_init"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Descriptor declares a mission module's participation in the lifecycle.
// Descriptors are immutable once registered.
type Descriptor struct {
	// Name is the module's component name, unique within the table.
	Name string
	// PreInit marks the module as having a pre-init entry point.
	PreInit bool
	// PostInitRoles lists the roles whose post-init entry points the
	// module implements.
	PostInitRoles []Role
}

// DeclaresRole reports whether the descriptor declares a post-init entry
// point for the given role.
func (d Descriptor) DeclaresRole(role Role) bool {
	return slices.Contains(d.PostInitRoles, role)
}

var (
	// ErrDuplicateModule reports a second registration under a name that
	// is already taken.
	ErrDuplicateModule = errors.New("duplicate module")
	// ErrSealed reports a registration attempted after dispatch began.
	ErrSealed = errors.New("registry is sealed")
)

// Registry holds the descriptor and handler tables for one process.
// It is populated single-threaded at setup time and read-only afterwards.
type Registry struct {
	namespace string

	order    []Descriptor
	byName   map[string]int
	handlers map[string]Func
	sealed   bool
}

// New creates an empty Registry for the given mission namespace. The
// namespace prefixes every canonical function path the registry's modules
// register under.
func New(namespace string) *Registry {
	return &Registry{
		namespace: namespace,
		byName:    make(map[string]int),
		handlers:  make(map[string]Func),
	}
}

// Namespace returns the mission namespace the registry was created with.
func (r *Registry) Namespace() string { return r.namespace }

// Register appends a module descriptor to the table. Declaration order is
// preserved: later modules may rely on earlier ones having already run.
func (r *Registry) Register(d Descriptor) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register module %q", ErrSealed, d.Name)
	}
	if d.Name == "" {
		return errors.New("module name must not be empty")
	}
	if _, exists := r.byName[d.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateModule, d.Name)
	}
	r.byName[d.Name] = len(r.order)
	r.order = append(r.order, d)
	return nil
}

// ListFor returns the descriptors participating in the given phase and role,
// in declaration order. For PhasePreInit the role argument is ignored:
// pre-init runs on every process regardless of role.
func (r *Registry) ListFor(phase Phase, role Role) []Descriptor {
	var out []Descriptor
	for _, d := range r.order {
		switch phase {
		case PhasePreInit:
			if d.PreInit {
				out = append(out, d)
			}
		case PhasePostInit:
			if d.DeclaresRole(role) {
				out = append(out, d)
			}
		}
	}
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.order[i], true
}

// Len returns the number of registered module descriptors.
func (r *Registry) Len() int { return len(r.order) }

// Seal freezes both tables. The orchestrator calls this before dispatching
// the first phase; any later registration fails with ErrSealed.
func (r *Registry) Seal() { r.sealed = true }
