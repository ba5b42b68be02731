// Package securemem provides helpers for handling secret byte material:
// in-place wiping, constant-time comparison, and sealing long-lived secrets
// into memory-protected enclaves.
package securemem

import (
	"crypto/rand"
	"crypto/subtle"

	"github.com/awnumar/memguard"
)

// Wipe overwrites a byte slice in place so its contents do not linger in memory.
// It makes three passes: zeros, then random bytes, then zeros again, leaving
// the buffer zeroed. If the random source is unavailable that pass writes ones
// instead; wiping never fails louder than the operation it protects.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0x00
	}
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = 0xFF
		}
	}
	for i := range b {
		b[i] = 0x00
	}
}

// WipeAll wipes each of the given slices.
func WipeAll(bufs ...[]byte) {
	for _, b := range bufs {
		Wipe(b)
	}
}

// ConstantTimeEquals compares two byte slices in time independent of their
// contents. Slices of different lengths compare unequal without inspecting
// contents; length is not treated as secret for fixed-size keys.
func ConstantTimeEquals(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// NewEnclave seals key into an encrypted memory enclave and wipes the source
// slice. Callers should open the returned enclave only for the shortest
// possible window and destroy the view immediately after use.
func NewEnclave(key []byte) *memguard.Enclave {
	enclave := memguard.NewEnclave(key)
	memguard.WipeBytes(key)
	return enclave
}
