// Package session drives the client's connection to the relay server.
//
// A Client owns the full connection lifecycle: dial, registration
// handshake, inbound frame handling, and reconnect with a countdown after
// any transport failure. The loop never gives up; only context
// cancellation stops it.
//
// Inbound policy is encryption-only: a text frame not explicitly flagged
// as encrypted is discarded without further processing. Decryption and
// injection failures are recorded as diagnostics and never terminate the
// session; only transport-level errors trigger the reconnect path.
//
// Session state is observable through Status, which hands out snapshot
// copies under a mutex so renderers never hold the lock during I/O.
package session
