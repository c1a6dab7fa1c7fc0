// Package testutil provides shared helpers for integration-style tests
// that stand up a whole forgeos process from a manifest fixture.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/forgeos/internal/app"
	"github.com/vk/forgeos/internal/hcl"
	"github.com/vk/forgeos/internal/registry"
	"github.com/vk/forgeos/internal/replication"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteManifest writes the given manifest files into a fresh temporary
// directory and returns its path. Keys are file names relative to the
// directory.
func WriteManifest(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// Process is one mission process stood up by NewProcess.
type Process struct {
	App *app.App
	Log *SafeBuffer
}

// NewProcess builds an App for the given role over the manifest directory.
// A nil loop keeps persistent writes local; a shared loop joins several
// test processes the way a relay would. Extra modules override the
// compiled-in set.
func NewProcess(t *testing.T, manifestDir, role string, loop *replication.Loop, mods ...registry.Module) *Process {
	t.Helper()

	logBuf := &SafeBuffer{}
	cfg, err := app.NewConfig(app.Config{
		MissionPath: manifestDir,
		Role:        role,
		LogFormat:   "text",
		LogLevel:    "debug",
	})
	require.NoError(t, err)

	missionApp, err := app.New(logBuf, cfg, hcl.NewLoader(), nil, mods...)
	require.NoError(t, err, "app startup failed:\n%s", logBuf.String())
	t.Cleanup(func() { missionApp.Close() })

	if loop != nil {
		missionApp.Vars().AttachTransport(loop.Attach(missionApp.Vars()))
	}

	return &Process{App: missionApp, Log: logBuf}
}
