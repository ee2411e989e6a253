// Package session holds the auth token that gates the gallery's edit mode.
// The default store lives in memory for the life of the process, mirroring a
// browser tab's session storage; FileStore shares the token across processes.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// Store keeps at most one token. An empty token means logged out.
type Store interface {
	Token() (string, error)
	SetToken(token string) error
	Clear() error
}

// LoggedIn reports whether s currently holds a token. Read errors count as logged out.
func LoggedIn(s Store) bool {
	if s == nil {
		return false
	}
	tok, err := s.Token()
	return err == nil && tok != ""
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Token() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	return m.SetToken("")
}

// FileStore persists the token in a 0600 file guarded by an advisory lock.
type FileStore struct {
	path string
	lock *flock.Flock
}

var _ Store = (*FileStore)(nil)

// DefaultPath returns $XDG_STATE_HOME/folio/session, creating parent directories.
func DefaultPath() (string, error) {
	p, err := xdg.StateFile(filepath.Join("folio", "session"))
	if err != nil {
		return "", fmt.Errorf("resolving session path: %w", err)
	}
	return p, nil
}

// NewFileStore returns a store backed by path. The parent directory is created if missing.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("session file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	return &FileStore{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the token file location.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Token() (string, error) {
	if err := f.lock.RLock(); err != nil {
		return "", fmt.Errorf("locking session file: %w", err)
	}
	defer f.lock.Unlock()

	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *FileStore) SetToken(token string) error {
	if token == "" {
		return f.Clear()
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("locking session file: %w", err)
	}
	defer f.lock.Unlock()

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("locking session file: %w", err)
	}
	defer f.lock.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
