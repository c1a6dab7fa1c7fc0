package lifecycle

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/forgeos/internal/funcpath"
	"github.com/vk/forgeos/internal/registry"
)

// buildRegistry registers the given descriptors and one tracing function
// body per declared entry point, appending "module/entry" to trace on each
// invocation.
func buildRegistry(t *testing.T, trace *[]string, descriptors ...registry.Descriptor) *registry.Registry {
	t.Helper()
	reg := registry.New("win99")
	for _, d := range descriptors {
		require.NoError(t, reg.Register(d))

		entries := []string{}
		if d.PreInit {
			entries = append(entries, funcpath.EntryPreInit)
		}
		for _, role := range d.PostInitRoles {
			switch role {
			case registry.RoleServer:
				entries = append(entries, funcpath.EntryPostInitServer)
			case registry.RoleClient:
				entries = append(entries, funcpath.EntryPostInitClient)
			default:
				entries = append(entries, funcpath.EntryPostInit)
			}
		}
		for _, entry := range entries {
			path, err := funcpath.Entry("win99", d.Name, entry)
			require.NoError(t, err)
			name, entry := d.Name, entry
			require.NoError(t, reg.RegisterFunc(path, func(context.Context) error {
				*trace = append(*trace, name+"/"+entry)
				return nil
			}))
		}
	}
	return reg
}

func TestPreInitRunsBeforeAnyPostInit(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace,
		registry.Descriptor{Name: "main", PreInit: true, PostInitRoles: []registry.Role{registry.RoleMain}},
		registry.Descriptor{Name: "db", PreInit: true, PostInitRoles: []registry.Role{registry.RoleMain}},
	)

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), []registry.Role{registry.RoleMain}))

	assert.Equal(t, []string{
		"main/init_pre",
		"db/init_pre",
		"main/init_post",
		"db/init_post",
	}, trace)
}

func TestPostInitFollowsRegistryOrder(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace,
		registry.Descriptor{Name: "a", PostInitRoles: []registry.Role{registry.RoleMain}},
		registry.Descriptor{Name: "b", PostInitRoles: []registry.Role{registry.RoleMain}},
		registry.Descriptor{Name: "c", PostInitRoles: []registry.Role{registry.RoleMain}},
	)

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), []registry.Role{registry.RoleMain}))

	assert.Equal(t, []string{"a/init_post", "b/init_post", "c/init_post"}, trace)
}

func TestMainRoleRunsBeforeServerRole(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace,
		registry.Descriptor{Name: "main", PostInitRoles: []registry.Role{registry.RoleMain, registry.RoleServer}},
		registry.Descriptor{Name: "db", PostInitRoles: []registry.Role{registry.RoleMain, registry.RoleServer}},
	)

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), []registry.Role{registry.RoleServer, registry.RoleMain}))

	assert.Equal(t, []string{
		"main/init_post",
		"db/init_post",
		"main/init_post_server",
		"db/init_post_server",
	}, trace)
}

func TestClientProcessSkipsServerEntries(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace,
		registry.Descriptor{Name: "messenger", PostInitRoles: []registry.Role{
			registry.RoleMain, registry.RoleServer, registry.RoleClient,
		}},
	)

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), []registry.Role{registry.RoleMain, registry.RoleClient}))

	assert.Equal(t, []string{"messenger/init_post", "messenger/init_post_client"}, trace)
}

func TestLoadFailureDegradesModuleOnly(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace,
		registry.Descriptor{Name: "calendar", PreInit: true},
	)
	// snet declares pre-init but registers no function body, so its load
	// must fail while calendar still runs.
	require.NoError(t, reg.Register(registry.Descriptor{Name: "snet", PreInit: true}))

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), nil))

	assert.Equal(t, []string{"calendar/init_pre"}, trace)
	require.Contains(t, o.Degraded(), "snet")
	assert.ErrorIs(t, o.Degraded()["snet"], ErrLoadFailure)
	assert.NotContains(t, o.Degraded(), "calendar")
	assert.Equal(t, StatePostInitDone, o.State())
}

func TestDegradedKeepsEveryFailedEntry(t *testing.T) {
	reg := registry.New("win99")
	// Declared for both phases with no function bodies at all: the pre-init
	// failure must not be overwritten by the post-init one.
	require.NoError(t, reg.Register(registry.Descriptor{
		Name: "snet", PreInit: true, PostInitRoles: []registry.Role{registry.RoleMain},
	}))

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), []registry.Role{registry.RoleMain}))

	err := o.Degraded()["snet"]
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailure)
	assert.Contains(t, err.Error(), funcpath.EntryPreInit)
	assert.Contains(t, err.Error(), funcpath.EntryPostInit)
}

func TestInvocationErrorDoesNotDegrade(t *testing.T) {
	reg := registry.New("win99")
	require.NoError(t, reg.Register(registry.Descriptor{Name: "db", PreInit: true}))
	path, err := funcpath.Entry("win99", "db", funcpath.EntryPreInit)
	require.NoError(t, err)
	require.NoError(t, reg.RegisterFunc(path, func(context.Context) error {
		return fmt.Errorf("schema migration failed")
	}))

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), nil))

	// The fault is reported, not recorded as a load failure.
	assert.Empty(t, o.Degraded())
}

func TestRunIsOneShot(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace, registry.Descriptor{Name: "main", PreInit: true})

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), nil))

	err := o.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyRun)
	assert.Equal(t, []string{"main/init_pre"}, trace)
}

// countingProvider counts compilations per canonical path.
type countingProvider struct {
	inner Provider
	calls map[string]int
}

func (p *countingProvider) Compile(ctx context.Context, path funcpath.Path) (registry.Func, error) {
	p.calls[path.String()]++
	return p.inner.Compile(ctx, path)
}

func TestCompileCacheCompilesOncePerPath(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace, registry.Descriptor{Name: "main", PreInit: true})
	provider := &countingProvider{inner: RegistryProvider{Registry: reg}, calls: map[string]int{}}

	o := New(reg, provider, DefaultOptions())
	require.NoError(t, o.Run(context.Background(), nil))

	path, err := funcpath.Entry("win99", "main", funcpath.EntryPreInit)
	require.NoError(t, err)
	_, err = o.Resolve(context.Background(), path)
	require.NoError(t, err)
	_, err = o.Resolve(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls[path.String()])
}

func TestDisabledCacheRecompilesEveryResolution(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace, registry.Descriptor{Name: "main", PreInit: true})
	provider := &countingProvider{inner: RegistryProvider{Registry: reg}, calls: map[string]int{}}

	o := New(reg, provider, Options{CompileCacheEnabled: false})
	path, err := funcpath.Entry("win99", "main", funcpath.EntryPreInit)
	require.NoError(t, err)

	_, err = o.Resolve(context.Background(), path)
	require.NoError(t, err)
	_, err = o.Resolve(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls[path.String()])
}

func TestFailedLoadStaysFailedWithCacheEnabled(t *testing.T) {
	reg := registry.New("win99")
	provider := &countingProvider{inner: RegistryProvider{Registry: reg}, calls: map[string]int{}}
	o := New(reg, provider, DefaultOptions())

	path, err := funcpath.Entry("win99", "ghost", funcpath.EntryPreInit)
	require.NoError(t, err)

	_, err = o.Resolve(context.Background(), path)
	require.ErrorIs(t, err, ErrLoadFailure)
	_, err = o.Resolve(context.Background(), path)
	require.ErrorIs(t, err, ErrLoadFailure)

	assert.Equal(t, 1, provider.calls[path.String()], "no retry with the cache enabled")
}

func TestStateTransitions(t *testing.T) {
	var trace []string
	reg := buildRegistry(t, &trace, registry.Descriptor{Name: "main", PreInit: true})

	o := New(reg, RegistryProvider{Registry: reg}, DefaultOptions())
	assert.Equal(t, StateUnstarted, o.State())
	require.NoError(t, o.Run(context.Background(), nil))
	assert.Equal(t, StatePostInitDone, o.State())
}
