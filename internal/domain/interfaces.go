package domain

import "context"

// IdentityStore persists the device's long-term keypair.
type IdentityStore interface {
	// LoadOrCreate returns the stored keypair, generating and persisting
	// a fresh one on first run.
	LoadOrCreate() (Keypair, error)

	// Clear deletes the persisted key file. Idempotent.
	Clear() error
}

// CredentialStore persists the OAuth credential set.
type CredentialStore interface {
	// Load returns the stored credentials. ok is false when no credential
	// file exists.
	Load() (creds CredentialSet, ok bool, err error)
	Save(creds CredentialSet) error

	// Clear deletes the persisted credential file. Idempotent.
	Clear() error
}

// Authenticator yields relay-ready credentials, acquiring or refreshing
// them as needed.
type Authenticator interface {
	GetOrAuthenticate(ctx context.Context) (CredentialSet, error)
	SignOut() error
}

// Typist injects decrypted text into the local desktop session.
type Typist interface {
	// Type simulates keystrokes for text. Failures are non-fatal to the
	// session; callers log and continue.
	Type(text string) error

	// Available reports whether the underlying tool is installed.
	Available() bool

	// Name returns the tool name for diagnostics.
	Name() string
}
