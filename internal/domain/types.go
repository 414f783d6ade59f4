package domain

import "time"

// X25519Public is a Curve25519 public key.
type X25519Public [32]byte

func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

func (k X25519Private) Slice() []byte { return k[:] }

// Keypair is the device's long-term key-exchange pair. Exactly one exists
// per installation; only the public half ever leaves the machine.
type Keypair struct {
	Priv X25519Private
	Pub  X25519Public
}

// EncryptedEnvelope is the wire form of one encrypted message. Every field
// is standard base64. The sender's long-term identity key is deliberately
// absent; only the per-message ephemeral key travels with the ciphertext.
type EncryptedEnvelope struct {
	Ciphertext         string `json:"ciphertext"`
	Nonce              string `json:"nonce"`
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
}

// CredentialSet is the OAuth-derived proof of identity presented to the
// relay at registration. ExpiresAt is always the server-declared expiry.
type CredentialSet struct {
	IDToken      string    `json:"idToken"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// ValidFor reports whether the credentials are good for at least d more.
func (c CredentialSet) ValidFor(now time.Time, d time.Duration) bool {
	return c.ExpiresAt.After(now.Add(d))
}
