package store

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jeffjose/utter/internal/crypto"
	"github.com/jeffjose/utter/internal/domain"
)

const keypairFile = "keypair.key"

// IdentityFileStore persists the device's long-term X25519 keypair. The
// file holds the raw 32-byte private key; the public key is rederived on
// load so the two can never drift apart.
type IdentityFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir}
}

// LoadOrCreate returns the stored keypair, generating and persisting a
// fresh one on first run. The key file is written with mode 0600 before
// the in-memory keypair is returned.
func (s *IdentityFileStore) LoadOrCreate() (domain.Keypair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, keypairFile)

	b, err := readFile(path)
	if err != nil {
		return domain.Keypair{}, fmt.Errorf("read key file: %w", err)
	}
	if b == nil {
		return s.generate(path)
	}
	if len(b) != crypto.KeyBytes {
		return domain.Keypair{}, fmt.Errorf("%w: got %d bytes", domain.ErrKeyFormat, len(b))
	}

	var kp domain.Keypair
	copy(kp.Priv[:], b)
	kp.Pub, err = crypto.PublicFor(kp.Priv)
	if err != nil {
		return domain.Keypair{}, fmt.Errorf("derive public key: %w", err)
	}
	return kp, nil
}

// Clear deletes the persisted key file. Idempotent.
func (s *IdentityFileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(filepath.Join(s.dir, keypairFile))
}

func (s *IdentityFileStore) generate(path string) (domain.Keypair, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.Keypair{}, fmt.Errorf("generate keypair: %w", err)
	}
	if err := writeFile(path, priv.Slice(), 0o600); err != nil {
		return domain.Keypair{}, fmt.Errorf("write key file: %w", err)
	}
	return domain.Keypair{Priv: priv, Pub: pub}, nil
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
