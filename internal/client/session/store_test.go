package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStoreAt(filepath.Join(t.TempDir(), "nested", "session.json"))

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoRecord)

	require.NoError(t, store.Save([]byte(`{"token":"tok"}`)))
	data, err := store.Load()
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"tok"}`, string(data))

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoRecord)

	// Clearing twice is fine.
	require.NoError(t, store.Clear())
}
