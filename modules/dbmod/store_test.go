package dbmod

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "notepad", "todo")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "notepad", "todo", "buy ammo"))

	body, found, err := store.Get(ctx, "notepad", "todo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "buy ammo", body)
}

func TestPutOverwrites(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "calendar", "date", "1999-06-12"))
	require.NoError(t, store.Put(ctx, "calendar", "date", "1999-06-13"))

	body, found, err := store.Get(ctx, "calendar", "date")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "1999-06-13", body)
}

func TestListOrdersByName(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "snet", "post_2", "second"))
	require.NoError(t, store.Put(ctx, "snet", "post_1", "first"))
	require.NoError(t, store.Put(ctx, "messenger", "inbox", "unrelated"))

	docs, err := store.List(ctx, "snet")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "post_1", docs[0].Name)
	assert.Equal(t, "first", docs[0].Body)
	assert.Equal(t, "post_2", docs[1].Name)
}

func TestOpenCreatesFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(context.Background(), "db", "boot", "now"))
}
