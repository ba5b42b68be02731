package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/fxamacker/cbor/v2"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	apperrors "github.com/allisson/credvault/internal/errors"
	"github.com/allisson/credvault/internal/securemem"
)

// envelopeVersion is the current remote envelope format version.
const envelopeVersion = 1

// wrappedEnvelope is the serialized form of a remotely wrapped credential key.
//
// The derived key is sealed locally with a fresh data encryption key (DEK) and
// the merged encryption context as AAD; only the DEK travels to the external
// KMS. This keeps the KMS payload small and constant-size while the context
// binding is still enforced cryptographically on every unwrap.
type wrappedEnvelope struct {
	Version    uint8  `cbor:"v"`
	Provider   string `cbor:"p"`
	Algorithm  string `cbor:"a"`
	WrappedDEK []byte `cbor:"wk"`
	Nonce      []byte `cbor:"n"`
	Ciphertext []byte `cbor:"ct"`
}

// RemoteEnvelopeProvider implements KeyWrapper using an external KMS keeper
// for the outer layer of a two-tier envelope scheme.
//
// The provider merges its identity context (application, version, purpose)
// into every caller-supplied encryption context before canonical encoding, so
// blobs wrapped by one deployment cannot be unwrapped by another even when the
// caller context matches.
type RemoteEnvelopeProvider struct {
	keeper      credentialDomain.KMSKeeper
	aeadManager AEADManager
	algorithm   credentialDomain.Algorithm
	identity    credentialDomain.EncryptionContext
	timeout     time.Duration
	logger      *slog.Logger
}

// NewRemoteEnvelopeProvider creates a remote wrapping provider backed by the
// given KMS keeper. The identity context is cloned and bound into the AAD of
// every wrap and unwrap. A positive timeout bounds each keeper round trip;
// zero disables the per-call deadline.
func NewRemoteEnvelopeProvider(
	keeper credentialDomain.KMSKeeper,
	aeadManager AEADManager,
	alg credentialDomain.Algorithm,
	identity credentialDomain.EncryptionContext,
	timeout time.Duration,
	logger *slog.Logger,
) (*RemoteEnvelopeProvider, error) {
	if keeper == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "kms keeper is required")
	}
	if aeadManager == nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "aead manager is required")
	}
	if _, err := credentialDomain.ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	return &RemoteEnvelopeProvider{
		keeper:      keeper,
		aeadManager: aeadManager,
		algorithm:   alg,
		identity:    identity.Clone(),
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// keeperContext bounds a keeper round trip with the configured deadline.
func (r *RemoteEnvelopeProvider) keeperContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Wrap seals key under a fresh DEK, sends only the DEK to the KMS, and returns
// the serialized envelope. The merged encryption context is bound as AAD, so
// unwrapping under any other context fails authentication.
func (r *RemoteEnvelopeProvider) Wrap(
	ctx context.Context,
	key []byte,
	ec credentialDomain.EncryptionContext,
) ([]byte, error) {
	if len(key) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "plaintext must not be empty")
	}
	if len(key) > credentialDomain.MaxWrapPlaintextSize {
		return nil, apperrors.Wrapf(
			credentialDomain.ErrPlaintextTooLarge,
			"plaintext is %d bytes, limit is %d",
			len(key), credentialDomain.MaxWrapPlaintextSize,
		)
	}
	if err := ec.Validate(); err != nil {
		return nil, err
	}
	aad := r.identity.Merge(ec).Canonical()

	// Generate a random 32-byte DEK
	dek := make([]byte, credentialDomain.KeySize)
	if _, err := rand.Read(dek); err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
	}
	defer securemem.Wipe(dek)

	aead, err := r.aeadManager.CreateCipher(dek, r.algorithm)
	if err != nil {
		return nil, err
	}
	ciphertext, nonce, err := aead.Encrypt(key, aad)
	if err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
	}

	kmsCtx, cancel := r.keeperContext(ctx)
	defer cancel()
	wrappedDEK, err := r.keeper.Encrypt(kmsCtx, dek)
	if err != nil {
		return nil, r.wrapKeeperError(err)
	}

	blob, err := cbor.Marshal(wrappedEnvelope{
		Version:    envelopeVersion,
		Provider:   credentialDomain.ProviderRemote,
		Algorithm:  string(r.algorithm),
		WrappedDEK: wrappedDEK,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	})
	if err != nil {
		return nil, apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
	}
	return blob, nil
}

// Unwrap opens a previously wrapped envelope under ec.
//
// Every internal failure collapses into the bare ErrUnwrapFailed sentinel so
// callers cannot distinguish a tampered blob from a context mismatch or a KMS
// denial. The only exception is deadline expiry, reported as
// ErrProviderTimeout because availability is not a secret. Causes are logged
// at debug level for operators.
func (r *RemoteEnvelopeProvider) Unwrap(
	ctx context.Context,
	blob []byte,
	ec credentialDomain.EncryptionContext,
) ([]byte, error) {
	if len(blob) == 0 {
		return nil, r.failUnwrap("empty blob", nil)
	}
	var envelope wrappedEnvelope
	if err := cbor.Unmarshal(blob, &envelope); err != nil {
		return nil, r.failUnwrap("envelope decode", err)
	}
	if envelope.Version != envelopeVersion {
		return nil, r.failUnwrap("envelope version mismatch", nil)
	}
	if envelope.Provider != credentialDomain.ProviderRemote {
		return nil, r.failUnwrap("envelope provider mismatch", nil)
	}
	// The envelope records the algorithm used at wrap time so configuration
	// changes never strand previously wrapped keys.
	alg, err := credentialDomain.ParseAlgorithm(envelope.Algorithm)
	if err != nil {
		return nil, r.failUnwrap("envelope algorithm", err)
	}
	if err := ec.Validate(); err != nil {
		return nil, r.failUnwrap("encryption context", err)
	}
	aad := r.identity.Merge(ec).Canonical()

	kmsCtx, cancel := r.keeperContext(ctx)
	defer cancel()
	dek, err := r.keeper.Decrypt(kmsCtx, envelope.WrappedDEK)
	if err != nil {
		return nil, r.unwrapKeeperError(err)
	}
	defer securemem.Wipe(dek)

	aead, err := r.aeadManager.CreateCipher(dek, alg)
	if err != nil {
		return nil, r.failUnwrap("cipher", err)
	}
	plaintext, err := aead.Decrypt(envelope.Ciphertext, envelope.Nonce, aad)
	if err != nil {
		return nil, r.failUnwrap("authentication", err)
	}
	return plaintext, nil
}

// Name returns the provider name recorded in enrollment records.
func (r *RemoteEnvelopeProvider) Name() string {
	return credentialDomain.ProviderRemote
}

// Algorithm reports the AEAD algorithm used for new wraps.
func (r *RemoteEnvelopeProvider) Algorithm() credentialDomain.Algorithm {
	return r.algorithm
}

// Close releases the underlying KMS keeper connection.
func (r *RemoteEnvelopeProvider) Close() error {
	return r.keeper.Close()
}

// wrapKeeperError classifies a keeper failure during Wrap. Wrap failures are
// not oracle-sensitive, so the cause detail is preserved.
func (r *RemoteEnvelopeProvider) wrapKeeperError(err error) error {
	if apperrors.Is(err, context.DeadlineExceeded) || apperrors.Is(err, context.Canceled) {
		return apperrors.Wrap(credentialDomain.ErrProviderTimeout, "kms encrypt call timed out")
	}
	return apperrors.Wrap(credentialDomain.ErrWrapFailed, err.Error())
}

// unwrapKeeperError classifies a keeper failure during Unwrap. Non-timeout
// causes collapse into the bare sentinel.
func (r *RemoteEnvelopeProvider) unwrapKeeperError(err error) error {
	if apperrors.Is(err, context.DeadlineExceeded) || apperrors.Is(err, context.Canceled) {
		return apperrors.Wrap(credentialDomain.ErrProviderTimeout, "kms decrypt call timed out")
	}
	r.logger.Debug("kms decrypt failed", slog.Any("error", err))
	return credentialDomain.ErrUnwrapFailed
}

func (r *RemoteEnvelopeProvider) failUnwrap(reason string, err error) error {
	if err != nil {
		r.logger.Debug("unwrap failed", slog.String("reason", reason), slog.Any("error", err))
	} else {
		r.logger.Debug("unwrap failed", slog.String("reason", reason))
	}
	return credentialDomain.ErrUnwrapFailed
}
