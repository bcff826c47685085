package dataservice

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := testStore(t)

	doc := map[string]any{"location": "Pune", "land_size": "2 acres"}
	require.NoError(t, store.Put("user_inputs", "conv-1", doc))

	got, err := store.Get("user_inputs", "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "Pune", got["location"])
	assert.Equal(t, "2 acres", got["land_size"])
}

func TestStoreReplace(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Put("conversation_history", "conv-1", map[string]any{"messages": []any{"a"}}))
	require.NoError(t, store.Put("conversation_history", "conv-1", map[string]any{"messages": []any{"a", "b"}}))

	got, err := store.Get("conversation_history", "conv-1")
	require.NoError(t, err)
	assert.Len(t, got["messages"], 2)
}

func TestStoreMissingDocument(t *testing.T) {
	store := testStore(t)
	_, err := store.Get("user_inputs", "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreUnknownCollection(t *testing.T) {
	store := testStore(t)
	_, err := store.Get("secrets", "conv-1")
	assert.ErrorIs(t, err, ErrUnknownCollection)

	err = store.Put("secrets", "conv-1", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestUpdateKey(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Put("user_inputs", "conv-1", map[string]any{"location": "Pune"}))

	require.NoError(t, store.UpdateKey("user_inputs", "conv-1", "soil_type", "black cotton"))

	got, err := store.Get("user_inputs", "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "black cotton", got["soil_type"])
	assert.Equal(t, "Pune", got["location"])
}

func TestUpdateKeyAllowlist(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Put("user_inputs", "conv-1", map[string]any{}))

	err := store.UpdateKey("user_inputs", "conv-1", "password", "nope")
	assert.ErrorIs(t, err, ErrInvalidKey)

	err = store.UpdateKey("conversation_history", "conv-1", "location", "Pune")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestUpdateKeyMissingDocument(t *testing.T) {
	store := testStore(t)
	err := store.UpdateKey("user_inputs", "ghost", "location", "Pune")
	assert.ErrorIs(t, err, ErrNotFound)
}
