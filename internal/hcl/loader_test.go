package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/forgeos/internal/funcpath"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const fullManifest = `
mission {
  name      = "forge_os_bare"
  prefix    = "win99"
  directory = "@forge_os/mpmissions/forge_os_bare"
}

version {
  major = 0
  minor = 3
  patch = 1
  build = 42
}

options {
  compile_cache = false
  debug_logging = true
}

vars {
  motd     = "welcome to win99"
  max_slots = 32
  hardcore  = false
  dlc       = ["calendar", "snet"]
}

module "main" {
  pre_init  = true
  post_init = ["main", "server", "client"]
}

module "db" {
  pre_init  = true
  post_init = ["server"]
}

module "calendar" {
  post_init = ["main"]
}
`

func TestLoadFullManifest(t *testing.T) {
	path := writeManifest(t, "mission.hcl", fullManifest)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.NotNil(t, model.Mission)
	assert.Equal(t, "forge_os_bare", model.Mission.Name)
	assert.Equal(t, "win99", model.Mission.Prefix)
	assert.Equal(t, "@forge_os/mpmissions/forge_os_bare", model.Mission.Directory)
	assert.Equal(t, "0.3.1.42", model.Version.String())

	assert.False(t, model.Settings.CompileCache)
	assert.True(t, model.Settings.DebugLogging)

	assert.Equal(t, "welcome to win99", model.Vars["motd"])
	assert.Equal(t, float64(32), model.Vars["max_slots"])
	assert.Equal(t, false, model.Vars["hardcore"])
	assert.Equal(t, []any{"calendar", "snet"}, model.Vars["dlc"])

	require.Len(t, model.Modules, 3)
	assert.Equal(t, "main", model.Modules[0].Name)
	assert.True(t, model.Modules[0].PreInit)
	assert.Equal(t, []string{"main", "server", "client"}, model.Modules[0].PostInit)
	assert.Equal(t, "db", model.Modules[1].Name)
	assert.Equal(t, []string{"server"}, model.Modules[1].PostInit)
	assert.Equal(t, "calendar", model.Modules[2].Name)
	assert.False(t, model.Modules[2].PreInit)
}

func TestLoadDefaultsWhenBlocksOmitted(t *testing.T) {
	path := writeManifest(t, "mission.hcl", `
mission {
  name      = "bare"
  prefix    = "win99"
  directory = ""
}
`)

	model, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, model.Settings.CompileCache, "compile cache defaults to enabled")
	assert.False(t, model.Settings.DebugLogging)
	assert.Equal(t, "0.0.0.0", model.Version.String())
	assert.Empty(t, model.Vars)
	assert.Empty(t, model.Modules)
}

func TestLoadDirectoryMergesFilesInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00_mission.hcl"), []byte(`
mission {
  name      = "bare"
  prefix    = "win99"
  directory = ""
}

module "main" { pre_init = true }
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10_modules.hcl"), []byte(`
module "db" { pre_init = true }
module "calendar" { post_init = ["main"] }
`), 0o644))

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	var names []string
	for _, m := range model.Modules {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"main", "db", "calendar"}, names)
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name     string
		manifest string
	}{
		{
			name:     "missing mission block",
			manifest: `module "db" { pre_init = true }`,
		},
		{
			name: "empty prefix",
			manifest: `
mission {
  name      = "bare"
  prefix    = ""
  directory = ""
}`,
		},
		{
			name: "unknown role",
			manifest: `
mission {
  name      = "bare"
  prefix    = "win99"
  directory = ""
}

module "db" { post_init = ["observer"] }`,
		},
		{
			name:     "malformed hcl",
			manifest: `mission {`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, "mission.hcl", tc.manifest)
			_, err := NewLoader().Load(context.Background(), path)
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsPrefixWithSeparator(t *testing.T) {
	path := writeManifest(t, "mission.hcl", `
mission {
  name      = "bare"
  prefix    = "win/99"
  directory = ""
}`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, funcpath.ErrInvalidIdentifier)
}

func TestLoadMissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
