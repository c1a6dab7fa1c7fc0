package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/forgeos/internal/funcpath"
)

// Func is a compiled function body. Phase entry points are invoked with no
// arguments beyond the context; a non-nil error is reported against the
// owning module but never aborts the phase.
type Func func(ctx context.Context) error

// Module is the interface mission module packages implement to contribute
// their descriptor and function bodies to a registry.
type Module interface {
	Register(r *Registry) error
}

// RegisterFunc binds a compiled function body to its canonical path. The
// default function source provider serves lookups from this table.
func (r *Registry) RegisterFunc(path funcpath.Path, fn Func) error {
	if r.sealed {
		return fmt.Errorf("%w: cannot register function %q", ErrSealed, path)
	}
	key := path.String()
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("%w: function %q already registered", ErrDuplicateModule, key)
	}
	slog.Debug("Registering function body.", "path", key)
	r.handlers[key] = fn
	return nil
}

// RegisterEntry binds a phase entry point for a component. The entry name
// should be one of the funcpath.Entry* constants.
func (r *Registry) RegisterEntry(component, entry string, fn Func) error {
	path, err := funcpath.Entry(r.namespace, component, entry)
	if err != nil {
		return err
	}
	return r.RegisterFunc(path, fn)
}

// RegisterFunction binds a named function under a component's functions
// directory.
func (r *Registry) RegisterFunction(component, name string, fn Func) error {
	path, err := funcpath.Resolve(r.namespace, component, name)
	if err != nil {
		return err
	}
	return r.RegisterFunc(path, fn)
}

// LookupFunc returns the function body registered under the canonical path
// string, if any.
func (r *Registry) LookupFunc(path string) (Func, bool) {
	fn, ok := r.handlers[path]
	return fn, ok
}
