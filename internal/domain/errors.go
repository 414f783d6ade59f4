package domain

import "errors"

var (
	// ErrKeyFormat means the persisted identity key file is not a raw
	// 32-byte private key. Fatal at startup; the user must reset keys.
	ErrKeyFormat = errors.New("identity key file is not a 32-byte key")

	// ErrBadKeyLength means a public key was not exactly 32 bytes.
	ErrBadKeyLength = errors.New("public key must be 32 bytes")

	// ErrBadNonceLength means a nonce was not exactly 12 bytes.
	ErrBadNonceLength = errors.New("nonce must be 12 bytes")

	// ErrBadEncoding means a base64 envelope field failed to decode.
	ErrBadEncoding = errors.New("malformed base64 in envelope")

	// ErrDecryptFailed is AEAD authentication failure: tampered
	// ciphertext, wrong key, or wrong nonce. The frame is dropped.
	ErrDecryptFailed = errors.New("message authentication failed")

	// ErrNoCredentials means no persisted credential set exists.
	ErrNoCredentials = errors.New("no stored credentials")

	// ErrAuthExpired is a terminal authorization failure (for example the
	// device code expired before the user approved it).
	ErrAuthExpired = errors.New("authorization expired")
)
