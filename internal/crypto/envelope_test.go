package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeffjose/utter/internal/crypto"
	"github.com/jeffjose/utter/internal/domain"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	for _, plaintext := range []string{
		"",
		"hello world",
		"multi\nline\ntext with unicode: héllo wörld 你好",
	} {
		env, err := crypto.Seal(plaintext, pub)
		require.NoError(t, err)

		got, err := crypto.Open(env, priv)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestSealOpen_FreshEphemeralPerMessage(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	a, err := crypto.Seal("same text", pub)
	require.NoError(t, err)
	b, err := crypto.Seal("same text", pub)
	require.NoError(t, err)

	require.NotEqual(t, a.EphemeralPublicKey, b.EphemeralPublicKey)
	require.NotEqual(t, a.Nonce, b.Nonce)
	require.NotEqual(t, a.Ciphertext, b.Ciphertext)

	// Both still open correctly.
	for _, env := range []domain.EncryptedEnvelope{a, b} {
		pt, err := crypto.Open(env, priv)
		require.NoError(t, err)
		require.Equal(t, "same text", pt)
	}
}

func TestOpen_WrongKeyFails(t *testing.T) {
	_, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	otherPriv, _, err := crypto.GenerateX25519()
	require.NoError(t, err)

	env, err := crypto.Seal("secret", pub)
	require.NoError(t, err)

	_, err = crypto.Open(env, otherPriv)
	require.ErrorIs(t, err, domain.ErrDecryptFailed)
}

func TestOpen_TamperRejected(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	env, err := crypto.Seal("secret", pub)
	require.NoError(t, err)

	flip := func(s string) string {
		raw, err := base64.StdEncoding.DecodeString(s)
		require.NoError(t, err)
		raw[0] ^= 0x01
		return base64.StdEncoding.EncodeToString(raw)
	}

	cases := map[string]domain.EncryptedEnvelope{
		"ciphertext": {Ciphertext: flip(env.Ciphertext), Nonce: env.Nonce, EphemeralPublicKey: env.EphemeralPublicKey},
		"nonce":      {Ciphertext: env.Ciphertext, Nonce: flip(env.Nonce), EphemeralPublicKey: env.EphemeralPublicKey},
		"ephemeral":  {Ciphertext: env.Ciphertext, Nonce: env.Nonce, EphemeralPublicKey: flip(env.EphemeralPublicKey)},
	}
	for name, tampered := range cases {
		pt, err := crypto.Open(tampered, priv)
		require.ErrorIs(t, err, domain.ErrDecryptFailed, "tampered %s", name)
		require.Empty(t, pt)
	}
}

func TestOpen_LengthValidationBeforeAEAD(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	env, err := crypto.Seal("secret", pub)
	require.NoError(t, err)

	shortNonce := env
	shortNonce.Nonce = base64.StdEncoding.EncodeToString(make([]byte, 11))
	_, err = crypto.Open(shortNonce, priv)
	require.ErrorIs(t, err, domain.ErrBadNonceLength)

	shortKey := env
	shortKey.EphemeralPublicKey = base64.StdEncoding.EncodeToString(make([]byte, 16))
	_, err = crypto.Open(shortKey, priv)
	require.ErrorIs(t, err, domain.ErrBadKeyLength)
}

func TestOpen_MalformedBase64(t *testing.T) {
	priv, pub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	env, err := crypto.Seal("secret", pub)
	require.NoError(t, err)

	bad := env
	bad.Ciphertext = "not base64!!!"
	_, err = crypto.Open(bad, priv)
	require.ErrorIs(t, err, domain.ErrBadEncoding)

	bad = env
	bad.Nonce = "%%%"
	_, err = crypto.Open(bad, priv)
	require.ErrorIs(t, err, domain.ErrBadEncoding)

	bad = env
	bad.EphemeralPublicKey = "***"
	_, err = crypto.Open(bad, priv)
	require.ErrorIs(t, err, domain.ErrBadEncoding)
}
