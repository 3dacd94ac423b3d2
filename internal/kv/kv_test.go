package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	ctx := context.Background()

	sqliteStore, err := OpenSQLite(filepath.Join(t.TempDir(), "study.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqliteStore.Close())
	})

	stores := map[string]Store{
		"sqlite": sqliteStore,
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(ctx, "cards")
			require.NoError(t, err)
			assert.False(t, ok, "missing key reports absent")

			require.NoError(t, store.Set(ctx, "cards", `[{"id":"c1"}]`))
			value, ok, err := store.Get(ctx, "cards")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[{"id":"c1"}]`, value)

			require.NoError(t, store.Set(ctx, "cards", `[]`))
			value, ok, err = store.Get(ctx, "cards")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[]`, value, "set replaces the previous value")

			require.NoError(t, store.Delete(ctx, "cards"))
			_, ok, err = store.Get(ctx, "cards")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Delete(ctx, "cards"), "deleting a missing key is fine")
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "study.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "streak", `{"current":3}`))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	value, ok, err := reopened.Get(ctx, "streak")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"current":3}`, value)
}
