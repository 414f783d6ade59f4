package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jeffjose/utter/internal/domain"
)

const credentialFile = "oauth.json"

// CredentialFileStore persists the OAuth credential set as JSON.
type CredentialFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewCredentialFileStore returns a CredentialFileStore rooted at dir.
func NewCredentialFileStore(dir string) *CredentialFileStore {
	return &CredentialFileStore{dir: dir}
}

// Load returns the stored credentials. ok is false when no credential file
// exists. A present-but-unreadable file is an error; callers fall back to
// re-authentication.
func (s *CredentialFileStore) Load() (domain.CredentialSet, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(filepath.Join(s.dir, credentialFile))
	if err != nil {
		return domain.CredentialSet{}, false, fmt.Errorf("read credential file: %w", err)
	}
	if b == nil {
		return domain.CredentialSet{}, false, nil
	}
	var creds domain.CredentialSet
	if err := json.Unmarshal(b, &creds); err != nil {
		return domain.CredentialSet{}, false, fmt.Errorf("parse credential file: %w", err)
	}
	return creds, true, nil
}

// Save persists creds with owner-only permissions.
func (s *CredentialFileStore) Save(creds domain.CredentialSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(filepath.Join(s.dir, credentialFile), creds, 0o600)
}

// Clear deletes the persisted credential file. Idempotent.
func (s *CredentialFileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(filepath.Join(s.dir, credentialFile))
}

// Compile-time assertion that CredentialFileStore implements domain.CredentialStore.
var _ domain.CredentialStore = (*CredentialFileStore)(nil)
