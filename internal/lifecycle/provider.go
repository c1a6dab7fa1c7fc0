package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
)

// ErrLoadFailure reports that a function body could not be compiled. The
// owning module is marked degraded; the phase continues without it.
var ErrLoadFailure = errors.New("load failure")

// Provider is the opaque external compiler: given a canonical path it
// returns an invocable handle or a load failure. The orchestrator owns
// caching; providers are called once per path unless the compile cache is
// disabled.
type Provider interface {
	Compile(ctx context.Context, path funcpath.Path) (registry.Func, error)
}

// RegistryProvider serves compilations from the registry's handler table.
// It is the default provider: mission module packages register their
// function bodies at setup time and the orchestrator looks them up here.
type RegistryProvider struct {
	Registry *registry.Registry
}

// Compile returns the registered function body for path.
func (p RegistryProvider) Compile(_ context.Context, path funcpath.Path) (registry.Func, error) {
	fn, ok := p.Registry.LookupFunc(path.String())
	if !ok {
		return nil, fmt.Errorf("%w: no function body registered for %q", ErrLoadFailure, path)
	}
	return fn, nil
}
