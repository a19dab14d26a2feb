package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewFileStore(path)

	_, ok := s.Get()
	assert.False(t, ok, "empty store should hold no credential")

	require.NoError(t, s.Set("tok-abc"))

	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", got)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, NewFileStore(path).Set("persisted"))

	// A fresh store over the same path sees the credential, like a page
	// reload in the same browser profile.
	got, ok := NewFileStore(path).Get()
	require.True(t, ok)
	assert.Equal(t, "persisted", got)
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, NewFileStore(path).Set("secret"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewFileStore(path)
	require.NoError(t, s.Set("tok"))

	require.NoError(t, s.Clear())
	_, ok := s.Get()
	assert.False(t, ok)

	// Clearing an already-empty store is a no-op.
	require.NoError(t, s.Clear())
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token")
	require.NoError(t, NewFileStore(path).Set("tok"))

	got, ok := NewFileStore(path).Get()
	require.True(t, ok)
	assert.Equal(t, "tok", got)
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()

	_, ok := s.Get()
	assert.False(t, ok)

	require.NoError(t, s.Set("x"))
	got, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "x", got)

	require.NoError(t, s.Clear())
	_, ok = s.Get()
	assert.False(t, ok)
}
