// Package store provides file-based persistence for the utter client.
//
// It contains concrete implementations of the domain storage interfaces.
// All methods are concurrency-safe via internal locking, files are written
// with owner-only permissions, and every write goes through a temp file
// followed by an atomic rename so a crash never leaves partial state.
//
// The package includes stores for:
//   - The long-term identity keypair (IdentityFileStore)
//   - OAuth credentials (CredentialFileStore)
package store
