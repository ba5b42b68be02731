// Package service provides the cryptographic engines for double-layer
// credential protection: deterministic key derivation from factor digests
// (layer one) and envelope wrapping of derived keys through a key-management
// capability (layer two).
package service

import (
	"context"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg credentialDomain.Algorithm) (AEAD, error)
}

// KeyDeriver defines the deterministic derivation of credential keys from an
// account identifier and its factor digests.
type KeyDeriver interface {
	// Derive computes the credential key for the account and factor set.
	// The same inputs always produce the same key; any change to the set or
	// the account produces an unrelated key. Callers own the returned buffer
	// and must wipe it when done.
	Derive(accountID credentialDomain.AccountID, factors credentialDomain.FactorDigestSet) ([]byte, error)

	// Verify re-derives the credential key and compares it against expected in
	// constant time. It never reports why a comparison failed.
	Verify(
		accountID credentialDomain.AccountID,
		factors credentialDomain.FactorDigestSet,
		expected []byte,
	) bool
}

// KeyWrapper defines the envelope-wrapping capability for derived credential
// keys. Implementations bind the merged encryption context as AAD so a blob
// unwraps only under the byte-identical context it was wrapped with.
type KeyWrapper interface {
	// Wrap seals key under the provider's key hierarchy, bound to ec.
	Wrap(ctx context.Context, key []byte, ec credentialDomain.EncryptionContext) ([]byte, error)

	// Unwrap opens a previously wrapped blob under ec. All failures collapse
	// into ErrUnwrapFailed except provider deadline expiry.
	Unwrap(ctx context.Context, blob []byte, ec credentialDomain.EncryptionContext) ([]byte, error)

	// Name identifies the provider for logs, receipts, and envelopes.
	Name() string

	// Algorithm reports the AEAD algorithm used for new wraps.
	Algorithm() credentialDomain.Algorithm

	// Close releases provider resources such as KMS connections.
	Close() error
}

// KeeperService defines the interface for opening KMS keepers.
type KeeperService interface {
	// OpenKeeper opens a keeper for the configured KMS provider.
	// Returns an error if the KMS key URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (credentialDomain.KMSKeeper, error)
}
