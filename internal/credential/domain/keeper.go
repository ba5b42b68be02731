package domain

import (
	"context"
)

// KMSKeeper is the minimal key-management capability the remote wrapping
// layer depends on: encrypt and decrypt small blobs of key material under an
// externally managed key. *secrets.Keeper from gocloud.dev satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
