package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/billedhq/expense-client/internal/application/port"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "session.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_PutAndGet(t *testing.T) {
	store := newTestStore(t)

	_, ok := store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Put("jwt", "token-1"))
	value, ok := store.Get("jwt")
	assert.True(t, ok)
	assert.Equal(t, "token-1", value)

	// Replaces the previous value.
	require.NoError(t, store.Put("jwt", "token-2"))
	value, _ = store.Get("jwt")
	assert.Equal(t, "token-2", value)
}

func TestStore_UserLifecycle(t *testing.T) {
	store := newTestStore(t)

	// Before login there is no user.
	_, err := port.CurrentUser(store)
	assert.ErrorIs(t, err, port.ErrNoUser)

	// Login populates the session.
	require.NoError(t, store.PutUser(port.User{Email: "user@email.com", Type: "Employee"}))

	user, err := port.CurrentUser(store)
	require.NoError(t, err)
	assert.Equal(t, "user@email.com", user.Email)
	assert.Equal(t, "Employee", user.Type)

	// Logout clears it.
	require.NoError(t, store.Clear())
	_, err = port.CurrentUser(store)
	assert.ErrorIs(t, err, port.ErrNoUser)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.PutUser(port.User{Email: "user@email.com", Type: "Employee"}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	user, err := port.CurrentUser(reopened)
	require.NoError(t, err)
	assert.Equal(t, "user@email.com", user.Email)
}
