// Package crypto exposes the primitives behind utter's message protection.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519,
//     DH)
//   - The hybrid message envelope: ephemeral X25519 + HKDF-SHA256 +
//     AES-256-GCM (Seal, Open)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// The envelope format, the HKDF salt/info constants and the AEAD choice
// are version-bound protocol parameters shared with the Android sender and
// must not change independently. All functions return fixed-size array
// types defined in internal/domain to avoid accidental reallocations;
// derived keys and shared secrets are wiped after use.
package crypto
