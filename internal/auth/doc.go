// Package auth owns the OAuth credential lifecycle.
//
// The Service wraps a domain.CredentialStore with expiry-aware retrieval:
// stored credentials are reused while they have more than five minutes of
// life left, refreshed through the token endpoint when a refresh token is
// available, and re-acquired from scratch otherwise.
//
// Acquisition is polymorphic over Strategy, with two implementations:
//
//   - BrowserStrategy: opens a loopback callback listener, hands the user
//     an authorization URL, and exchanges the redirected code for tokens.
//   - DeviceStrategy: requests a device/user code pair and polls the token
//     endpoint until the user approves elsewhere (RFC 8628).
//
// Client identifiers for native apps are not confidentiality-bearing;
// security rests on redirect-URI validation and relay-side token
// verification, not on keeping the client secret private.
package auth
