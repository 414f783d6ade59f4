// Package memzero provides best-effort wiping of sensitive byte slices.
package memzero

import "crypto/subtle"

// Zero overwrites b with zeros. Used on derived keys and ECDH shared
// secrets once they are no longer needed.
func Zero(b []byte) {
	if len(b) == 0 {
		return
	}
	zero := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zero)
}
