package bunstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-authclient/store/bunstore"
)

func newTestStore(t *testing.T) *bunstore.TokenStore {
	t.Helper()

	store, err := bunstore.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBunStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("tok-123"))
	token, ok, err := store.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-123", token)

	require.NoError(t, store.Set("tok-456"))
	token, ok, err = store.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-456", token, "set upserts the single row")

	require.NoError(t, store.Clear())
	_, ok, err = store.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	// clearing twice is a no-op
	require.NoError(t, store.Clear())
}

func TestBunStoreEmptyValueReportsAbsent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(""))
	_, ok, err := store.Get()
	require.NoError(t, err)
	assert.False(t, ok)
}
