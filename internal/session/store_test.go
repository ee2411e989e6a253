package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	assert.False(t, LoggedIn(s))

	require.NoError(t, s.SetToken("abc"))
	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)
	assert.True(t, LoggedIn(s))

	require.NoError(t, s.Clear())
	assert.False(t, LoggedIn(s))
}

func TestLoggedIn_NilStore(t *testing.T) {
	assert.False(t, LoggedIn(nil))
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "folio", "session")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, tok, "missing file means logged out")

	require.NoError(t, s.SetToken("jwt-value"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A second store on the same path sees the token.
	other, err := NewFileStore(path)
	require.NoError(t, err)
	tok, err = other.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-value", tok)

	require.NoError(t, other.Clear())
	assert.False(t, LoggedIn(s))
	require.NoError(t, s.Clear(), "clearing twice is not an error")
}

func TestFileStore_SetEmptyClears(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "session"))
	require.NoError(t, err)
	require.NoError(t, s.SetToken("x"))
	require.NoError(t, s.SetToken(""))
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestNewFileStore_EmptyPath(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}
