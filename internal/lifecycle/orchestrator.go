package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/forgeos/internal/ctxlog"
	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
)

// State tracks the orchestrator's progress through its one-way lifecycle.
type State uint8

const (
	// StateUnstarted is the initial state.
	StateUnstarted State = iota
	// StatePreInitRunning means the pre-init phase is dispatching.
	StatePreInitRunning
	// StatePreInitDone means every pre-init entry has returned.
	StatePreInitDone
	// StatePostInitRunning means a role's post-init phase is dispatching.
	StatePostInitRunning
	// StatePostInitDone is terminal; the compile cache is read-only from
	// here on.
	StatePostInitDone
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StatePreInitRunning:
		return "pre_init_running"
	case StatePreInitDone:
		return "pre_init_done"
	case StatePostInitRunning:
		return "post_init_running"
	case StatePostInitDone:
		return "post_init_done"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Options configures an Orchestrator. It replaces the build-flag toggles of
// older mission frameworks with explicit runtime configuration.
type Options struct {
	// CompileCacheEnabled caches compiled function bodies per canonical
	// path. Disabling it forces recompilation on every resolution, a
	// debug-only mode.
	CompileCacheEnabled bool
	// DebugLogging raises phase dispatch logging to per-invocation detail.
	DebugLogging bool
}

// DefaultOptions returns the production configuration.
func DefaultOptions() Options {
	return Options{CompileCacheEnabled: true}
}

// ErrAlreadyRun reports a second Run on the same orchestrator. Phases run
// once per process; there is no re-entry.
var ErrAlreadyRun = errors.New("lifecycle already run")

// roleOrder fixes the post-init role order on a single process: a module's
// main-role entry always runs before its server or client entry.
var roleOrder = []registry.Role{registry.RoleMain, registry.RoleServer, registry.RoleClient}

// Orchestrator walks the registry's descriptor table through the two init
// phases and owns this process's compiled-function cache.
//
// It is single-threaded: Run dispatches every entry synchronously on the
// calling goroutine, and a long-running module function blocks the rest of
// its phase. That is the contract, not an accident.
type Orchestrator struct {
	reg      *registry.Registry
	provider Provider
	opts     Options

	state    State
	cache    map[string]registry.Func
	failed   map[string]error
	degraded map[string]error
}

// New creates an orchestrator over the given registry and function source
// provider.
func New(reg *registry.Registry, provider Provider, opts Options) *Orchestrator {
	return &Orchestrator{
		reg:      reg,
		provider: provider,
		opts:     opts,
		cache:    make(map[string]registry.Func),
		failed:   make(map[string]error),
		degraded: make(map[string]error),
	}
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Degraded returns the modules whose function bodies failed to load, keyed
// by module name. A module that failed several entries carries every
// failure joined. The map is shared; callers must not mutate it.
func (o *Orchestrator) Degraded() map[string]error { return o.degraded }

// Run executes pre-init and then post-init for each role the process
// holds. Roles outside the held set are skipped entirely; within the held
// set the dispatch order is main, then server, then client.
//
// Run seals the registry before dispatching and may be called once. Module
// failures never surface as an error here: a fault in one module must not
// prevent the rest of the mission from initializing.
func (o *Orchestrator) Run(ctx context.Context, roles []registry.Role) error {
	if o.state != StateUnstarted {
		return fmt.Errorf("%w: state %s", ErrAlreadyRun, o.state)
	}
	logger := ctxlog.FromContext(ctx)
	o.reg.Seal()

	o.state = StatePreInitRunning
	logger.Info("Pre-init phase starting.", "modules", len(o.reg.ListFor(registry.PhasePreInit, registry.RoleMain)))
	for _, d := range o.reg.ListFor(registry.PhasePreInit, registry.RoleMain) {
		o.dispatch(ctx, d.Name, funcpath.EntryPreInit)
	}
	o.state = StatePreInitDone
	logger.Info("Pre-init phase complete.")

	held := make(map[registry.Role]bool, len(roles))
	for _, r := range roles {
		held[r] = true
	}

	o.state = StatePostInitRunning
	for _, role := range roleOrder {
		if !held[role] {
			continue
		}
		mods := o.reg.ListFor(registry.PhasePostInit, role)
		logger.Info("Post-init phase starting.", "role", role.String(), "modules", len(mods))
		for _, d := range mods {
			o.dispatch(ctx, d.Name, entryFor(role))
		}
	}
	o.state = StatePostInitDone
	logger.Info("Post-init phase complete.", "degraded", len(o.degraded))
	return nil
}

// entryFor maps a post-init role to its entry point name.
func entryFor(role registry.Role) string {
	switch role {
	case registry.RoleServer:
		return funcpath.EntryPostInitServer
	case registry.RoleClient:
		return funcpath.EntryPostInitClient
	default:
		return funcpath.EntryPostInit
	}
}

// dispatch loads and invokes one module's entry point. Load failures mark
// the module degraded; invocation errors are logged. Neither aborts the
// phase.
func (o *Orchestrator) dispatch(ctx context.Context, module, entry string) {
	logger := ctxlog.FromContext(ctx)

	path, err := funcpath.Entry(o.reg.Namespace(), module, entry)
	if err != nil {
		o.markDegraded(module, entry, err)
		logger.Error("Module entry path invalid, marking degraded.",
			"module", module, "entry", entry, "error", err)
		return
	}

	fn, err := o.load(ctx, path)
	if err != nil {
		o.markDegraded(module, entry, err)
		logger.Error("Module function body failed to load, marking degraded.",
			"module", module, "path", path.String(), "error", err)
		return
	}

	if o.opts.DebugLogging {
		logger.Debug("Invoking module entry.", "module", module, "path", path.String())
	}
	if err := fn(ctx); err != nil {
		// Runtime faults are isolated to the module and reported only.
		logger.Error("Module entry returned an error.",
			"module", module, "path", path.String(), "error", err)
	}
}

// markDegraded records a failure against the module and the entry it hit.
// A module can fail more than one entry in a run; every failure is kept.
func (o *Orchestrator) markDegraded(module, entry string, err error) {
	o.degraded[module] = errors.Join(o.degraded[module],
		fmt.Errorf("%s: %w", entry, err))
}

// load compiles the function body at path, consulting the cache first.
// Failures are cached too: there is no retry, and a failed load stays
// failed for the process lifetime. Disabling the cache forces a fresh
// provider call, and so a fresh attempt, on every resolution.
func (o *Orchestrator) load(ctx context.Context, path funcpath.Path) (registry.Func, error) {
	key := path.String()
	if o.opts.CompileCacheEnabled {
		if fn, ok := o.cache[key]; ok {
			return fn, nil
		}
		if err, ok := o.failed[key]; ok {
			return nil, err
		}
	}
	fn, err := o.provider.Compile(ctx, path)
	if o.opts.CompileCacheEnabled {
		if err != nil {
			o.failed[key] = err
		} else {
			o.cache[key] = fn
		}
	}
	if err != nil {
		return nil, err
	}
	return fn, nil
}

// Resolve returns the compiled function body for path, loading it on first
// use. After StatePostInitDone the cache is effectively read-only: repeat
// resolutions return the cached handle without touching the provider,
// unless the compile cache is disabled.
func (o *Orchestrator) Resolve(ctx context.Context, path funcpath.Path) (registry.Func, error) {
	return o.load(ctx, path)
}
