package authclient

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// NewMemoryTokenStore returns a process local store. Suitable for tests and
// for environments where persistence is not wanted.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// MemoryTokenStore holds the credential in memory only.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func (s *MemoryTokenStore) Get() (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.set, nil
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

// NoopTokenStore is the no-storage-available rendition of the contract: Get
// reports absent, Set and Clear are silently skipped. Use it where a client
// runs without any persistent storage.
type NoopTokenStore struct{}

func (NoopTokenStore) Get() (string, bool, error) { return "", false, nil }
func (NoopTokenStore) Set(string) error           { return nil }
func (NoopTokenStore) Clear() error               { return nil }

// FileTokenStore persists the credential in a single file inside the
// client's profile directory, so it survives process restarts. An empty path
// degrades the store to a no-op rather than failing.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStore builds a file backed store at path. When path is empty
// the store behaves like NoopTokenStore.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// DefaultTokenPath places the credential under the user config directory,
// keyed by the given application name.
func DefaultTokenPath(app string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	if app == "" {
		app = "authclient"
	}
	return filepath.Join(dir, app, "access_token")
}

func (s *FileTokenStore) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return "", false, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read token file")
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *FileTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to create token directory")
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to write token file")
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return nil
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to remove token file")
	}
	return nil
}
