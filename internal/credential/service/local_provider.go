package service

import (
	"context"
	"crypto/rand"
	"log/slog"

	"github.com/awnumar/memguard"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	apperrors "github.com/allisson/credvault/internal/errors"
	"github.com/allisson/credvault/internal/securemem"
)

// LocalEnvelopeProvider implements KeyWrapper with a process-local master key
// held in a memguard enclave. Blobs are nonce || ciphertext with the canonical
// encryption context bound as AAD.
//
// This provider exists for development and testing. Blobs cannot be unwrapped
// by another process unless it holds the same master key, and an ephemeral
// master key dies with the process.
type LocalEnvelopeProvider struct {
	enclave     *memguard.Enclave
	aeadManager AEADManager
	algorithm   credentialDomain.Algorithm
	logger      *slog.Logger
}

// NewLocalEnvelopeProvider creates a local wrapping provider from a 32-byte
// master key. The key material is moved into a memguard enclave and the source
// slice is wiped.
func NewLocalEnvelopeProvider(
	masterKey []byte,
	aeadManager AEADManager,
	alg credentialDomain.Algorithm,
	logger *slog.Logger,
) (*LocalEnvelopeProvider, error) {
	if len(masterKey) == 0 {
		return nil, credentialDomain.ErrMasterKeyRequired
	}
	if len(masterKey) != credentialDomain.KeySize {
		return nil, apperrors.Wrapf(
			credentialDomain.ErrInvalidKeySize,
			"local master key must be %d bytes, got %d",
			credentialDomain.KeySize, len(masterKey),
		)
	}
	if aeadManager == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "aead manager is required")
	}
	if _, err := credentialDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}

	logger.Warn("local key wrapping enabled",
		slog.String("algorithm", string(alg)),
		slog.String("detail", "derived keys are protected by a process-local master key; use a remote KMS provider in production"))

	// NewEnclave wipes masterKey after sealing it.
	return &LocalEnvelopeProvider{
		enclave:     securemem.NewEnclave(masterKey),
		aeadManager: aeadManager,
		algorithm:   alg,
		logger:      logger,
	}, nil
}

// NewEphemeralLocalEnvelopeProvider creates a local wrapping provider with a
// random master key that exists only for the lifetime of the process.
func NewEphemeralLocalEnvelopeProvider(
	aeadManager AEADManager,
	alg credentialDomain.Algorithm,
	logger *slog.Logger,
) (*LocalEnvelopeProvider, error) {
	masterKey := make([]byte, credentialDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
	}
	logger.Warn("ephemeral master key generated",
		slog.String("detail", "wrapped credentials become unrecoverable when the process exits"))
	return NewLocalEnvelopeProvider(masterKey, aeadManager, alg, logger)
}

// Wrap seals key under the local master key with ec bound as AAD.
func (l *LocalEnvelopeProvider) Wrap(
	ctx context.Context,
	key []byte,
	ec credentialDomain.EncryptionContext,
) ([]byte, error) {
	if len(key) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "plaintext must not be empty")
	}
	if err := ec.Validate(); err != nil {
		return nil, err
	}

	buffer, err := l.enclave.Open()
	if err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
	}
	defer buffer.Destroy()

	aead, err := l.aeadManager.CreateCipher(buffer.Bytes(), l.algorithm)
	if err != nil {
		return nil, err
	}
	ciphertext, nonce, err := aead.Encrypt(key, ec.Canonical())
	if err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Unwrap opens a locally wrapped blob under ec. All failures collapse into
// the bare ErrUnwrapFailed sentinel; causes are logged at debug level.
func (l *LocalEnvelopeProvider) Unwrap(
	ctx context.Context,
	blob []byte,
	ec credentialDomain.EncryptionContext,
) ([]byte, error) {
	if len(blob) < credentialDomain.NonceSize+credentialDomain.TagSize {
		return nil, l.failUnwrap("blob too short", nil)
	}
	if err := ec.Validate(); err != nil {
		return nil, l.failUnwrap("encryption context", err)
	}

	buffer, err := l.enclave.Open()
	if err != nil {
		return nil, l.failUnwrap("master key enclave", err)
	}
	defer buffer.Destroy()

	aead, err := l.aeadManager.CreateCipher(buffer.Bytes(), l.algorithm)
	if err != nil {
		return nil, l.failUnwrap("cipher", err)
	}
	plaintext, err := aead.Decrypt(blob[credentialDomain.NonceSize:], blob[:credentialDomain.NonceSize], ec.Canonical())
	if err != nil {
		return nil, l.failUnwrap("authentication", err)
	}
	return plaintext, nil
}

// Name returns the provider name recorded in enrollment records.
func (l *LocalEnvelopeProvider) Name() string {
	return credentialDomain.ProviderLocal
}

// Algorithm reports the AEAD algorithm used for new wraps.
func (l *LocalEnvelopeProvider) Algorithm() credentialDomain.Algorithm {
	return l.algorithm
}

// Close is a no-op; the master key enclave is released when the memguard
// session is purged at process exit.
func (l *LocalEnvelopeProvider) Close() error {
	return nil
}

func (l *LocalEnvelopeProvider) failUnwrap(reason string, err error) error {
	if err != nil {
		l.logger.Debug("unwrap failed", slog.String("reason", reason), slog.Any("error", err))
	} else {
		l.logger.Debug("unwrap failed", slog.String("reason", reason))
	}
	return credentialDomain.ErrUnwrapFailed
}
