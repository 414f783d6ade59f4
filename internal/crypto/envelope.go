package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/jeffjose/utter/internal/domain"
	"github.com/jeffjose/utter/internal/util/memzero"
)

const (
	// KeyBytes is the length of X25519 keys and derived AEAD keys.
	KeyBytes = 32
	// NonceBytes is the AES-GCM nonce length.
	NonceBytes = 12

	// HKDF parameters shared with the Android sender and the relay.
	// Changing either breaks decryption for every paired device.
	hkdfSalt = "utter-relay-e2e-2024"
	hkdfInfo = "message-encryption-v1"
)

// Seal encrypts plaintext for recipient with a fresh ephemeral keypair.
// The derived AEAD key lives only for this call, so the random nonce can
// never repeat under the same key.
func Seal(plaintext string, recipient domain.X25519Public) (domain.EncryptedEnvelope, error) {
	ephPriv, ephPub, err := GenerateX25519()
	if err != nil {
		return domain.EncryptedEnvelope{}, fmt.Errorf("generate ephemeral key: %w", err)
	}
	defer memzero.Zero(ephPriv[:])

	shared, err := DH(ephPriv, recipient)
	if err != nil {
		return domain.EncryptedEnvelope{}, fmt.Errorf("ecdh: %w", err)
	}
	defer memzero.Zero(shared[:])

	key, err := deriveKey(shared[:])
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	defer memzero.Zero(key)

	nonce := make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return domain.EncryptedEnvelope{}, fmt.Errorf("generate nonce: %w", err)
	}

	aead, err := newAEAD(key)
	if err != nil {
		return domain.EncryptedEnvelope{}, err
	}
	ct := aead.Seal(nil, nonce, []byte(plaintext), nil)

	return domain.EncryptedEnvelope{
		Ciphertext:         base64.StdEncoding.EncodeToString(ct),
		Nonce:              base64.StdEncoding.EncodeToString(nonce),
		EphemeralPublicKey: base64.StdEncoding.EncodeToString(ephPub[:]),
	}, nil
}

// Open decrypts an envelope with our long-term private key. Field lengths
// are validated before any AEAD work; authentication failure surfaces as
// domain.ErrDecryptFailed, never as partial plaintext.
func Open(env domain.EncryptedEnvelope, priv domain.X25519Private) (string, error) {
	ephBytes, err := base64.StdEncoding.DecodeString(env.EphemeralPublicKey)
	if err != nil {
		return "", fmt.Errorf("%w: ephemeral key: %v", domain.ErrBadEncoding, err)
	}
	if len(ephBytes) != KeyBytes {
		return "", fmt.Errorf("%w: got %d", domain.ErrBadKeyLength, len(ephBytes))
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return "", fmt.Errorf("%w: nonce: %v", domain.ErrBadEncoding, err)
	}
	if len(nonce) != NonceBytes {
		return "", fmt.Errorf("%w: got %d", domain.ErrBadNonceLength, len(nonce))
	}
	ct, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %v", domain.ErrBadEncoding, err)
	}

	var eph domain.X25519Public
	copy(eph[:], ephBytes)

	shared, err := DH(priv, eph)
	if err != nil {
		return "", fmt.Errorf("ecdh: %w", err)
	}
	defer memzero.Zero(shared[:])

	key, err := deriveKey(shared[:])
	if err != nil {
		return "", err
	}
	defer memzero.Zero(key)

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", domain.ErrDecryptFailed
	}
	return string(pt), nil
}

// deriveKey stretches an ECDH shared secret into a 32-byte AEAD key using
// HKDF-SHA256 with the protocol's fixed salt and info strings.
func deriveKey(shared []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, shared, []byte(hkdfSalt), []byte(hkdfInfo))
	key := make([]byte, KeyBytes)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return key, nil
}

// newAEAD builds AES-256-GCM. AES-GCM is fixed by the wire protocol; the
// paired sender uses the same cipher.
func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes: %w", err)
	}
	return cipher.NewGCM(block)
}
