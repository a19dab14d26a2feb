// Package session owns the client's credential and authentication state.
//
// The token store and the session state are process-wide single-writer
// resources: only the Manager mutates them. Everything else reads through
// accessors.
package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avirajkale50/cloud-guardian/internal/config"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
)

// TokenFileName is the file under the config directory holding the raw
// bearer token. The single well-known location for persisted client state.
const TokenFileName = "token"

// Store holds the current session credential. The credential is opaque:
// stored and attached, never inspected.
type Store interface {
	// Get returns the credential and whether one is held.
	Get() (string, bool)
	// Set replaces the credential.
	Set(token string) error
	// Clear removes the credential. Clearing an empty store is a no-op.
	Clear() error
}

// FileStore persists the credential on disk so sessions survive restarts.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the given file path. An empty path
// uses the default location under the cloudguard config directory.
func NewFileStore(path string) *FileStore {
	if path == "" {
		if dir := config.Dir(); dir != "" {
			path = filepath.Join(dir, TokenFileName)
		}
	}
	return &FileStore{path: path}
}

// Get reads the credential from disk.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return "", false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

// Set writes the credential with owner-only permissions.
func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New(errors.ErrAuth,
			"Cannot determine token location",
			"Set HOME so the credential can be stored under ~/.config/cloudguard")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrAuth,
			"Failed to create credential directory",
			"Check permissions on "+filepath.Dir(s.path))
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return errors.WrapWithCode(err, errors.ErrAuth,
			"Failed to store credential",
			"Check permissions on "+s.path)
	}
	return nil
}

// Clear removes the credential file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrAuth,
			"Failed to remove stored credential",
			"Delete "+s.path+" manually")
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
