package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	apperrors "github.com/allisson/credvault/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testIdentity() credentialDomain.EncryptionContext {
	return credentialDomain.EncryptionContext{
		credentialDomain.ContextKeyApplication: "credvault",
		credentialDomain.ContextKeyPurpose:     credentialDomain.WrapPurpose,
	}
}

// fakeKeeper implements the KMS keeper interface with a reversible transform
// and injectable failures.
type fakeKeeper struct {
	encryptErr error
	decryptErr error
	closed     bool
}

var fakeKeeperPrefix = []byte("kms:")

func (f *fakeKeeper) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	if f.encryptErr != nil {
		return nil, f.encryptErr
	}
	return append(append([]byte(nil), fakeKeeperPrefix...), plaintext...), nil
}

func (f *fakeKeeper) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	if f.decryptErr != nil {
		return nil, f.decryptErr
	}
	if !bytes.HasPrefix(ciphertext, fakeKeeperPrefix) {
		return nil, errors.New("malformed ciphertext")
	}
	return append([]byte(nil), ciphertext[len(fakeKeeperPrefix):]...), nil
}

func (f *fakeKeeper) Close() error {
	f.closed = true
	return nil
}

// slowKeeper blocks every round trip until the request context expires.
type slowKeeper struct {
	fakeKeeper
}

func (s *slowKeeper) Encrypt(ctx context.Context, _ []byte) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *slowKeeper) Decrypt(ctx context.Context, _ []byte) ([]byte, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func openTestKeeper(t *testing.T) credentialDomain.KMSKeeper {
	t.Helper()
	keeper, err := NewKeeperService().OpenKeeper(context.Background(), generateLocalSecretsURI(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, keeper.Close())
	})
	return keeper
}

func newTestRemoteProvider(
	t *testing.T,
	keeper credentialDomain.KMSKeeper,
	alg credentialDomain.Algorithm,
) *RemoteEnvelopeProvider {
	t.Helper()
	provider, err := NewRemoteEnvelopeProvider(keeper, NewAEADManager(), alg, testIdentity(), 0, testLogger())
	require.NoError(t, err)
	return provider
}

func TestNewRemoteEnvelopeProvider(t *testing.T) {
	keeper := &fakeKeeper{}

	t.Run("valid configuration", func(t *testing.T) {
		provider, err := NewRemoteEnvelopeProvider(
			keeper, NewAEADManager(), credentialDomain.AESGCM, testIdentity(), 0, testLogger())
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("nil identity is allowed", func(t *testing.T) {
		provider, err := NewRemoteEnvelopeProvider(
			keeper, NewAEADManager(), credentialDomain.AESGCM, nil, 0, testLogger())
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("nil keeper", func(t *testing.T) {
		_, err := NewRemoteEnvelopeProvider(
			nil, NewAEADManager(), credentialDomain.AESGCM, nil, 0, testLogger())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("nil aead manager", func(t *testing.T) {
		_, err := NewRemoteEnvelopeProvider(
			keeper, nil, credentialDomain.AESGCM, nil, 0, testLogger())
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := NewRemoteEnvelopeProvider(
			keeper, NewAEADManager(), credentialDomain.Algorithm("des"), nil, 0, testLogger())
		assert.ErrorIs(t, err, credentialDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("invalid identity context", func(t *testing.T) {
		badIdentity := credentialDomain.EncryptionContext{"": "value"}
		_, err := NewRemoteEnvelopeProvider(
			keeper, NewAEADManager(), credentialDomain.AESGCM, badIdentity, 0, testLogger())
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidContext)
	})
}

func TestRemoteEnvelopeProvider_WrapUnwrap(t *testing.T) {
	ctx := context.Background()
	provider := newTestRemoteProvider(t, openTestKeeper(t), credentialDomain.AESGCM)

	derivedKey := make([]byte, credentialDomain.KeySize)
	_, err := rand.Read(derivedKey)
	require.NoError(t, err)

	ec := credentialDomain.EncryptionContext{
		credentialDomain.ContextKeyAccountID: "550e8400-e29b-41d4-a716-446655440000",
		"device":                             "mobile-primary",
	}

	t.Run("round trip", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, ec)
		require.NoError(t, err)
		assert.NotContains(t, string(blob), string(derivedKey))

		opened, err := provider.Unwrap(ctx, blob, ec)
		require.NoError(t, err)
		assert.Equal(t, derivedKey, opened)
	})

	t.Run("round trip with nil context", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, nil)
		require.NoError(t, err)

		opened, err := provider.Unwrap(ctx, blob, nil)
		require.NoError(t, err)
		assert.Equal(t, derivedKey, opened)
	})

	t.Run("unwrap under a different context fails", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, ec)
		require.NoError(t, err)

		otherCtx := ec.Clone()
		otherCtx["device"] = "mobile-secondary"

		_, err = provider.Unwrap(ctx, blob, otherCtx)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("unwrap with a missing context key fails", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, ec)
		require.NoError(t, err)

		partial := credentialDomain.EncryptionContext{
			credentialDomain.ContextKeyAccountID: "550e8400-e29b-41d4-a716-446655440000",
		}

		_, err = provider.Unwrap(ctx, blob, partial)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("tampered blob fails", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, ec)
		require.NoError(t, err)

		blob[len(blob)-1] ^= 1

		_, err = provider.Unwrap(ctx, blob, ec)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("truncated blob fails", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, ec)
		require.NoError(t, err)

		_, err = provider.Unwrap(ctx, blob[:len(blob)/2], ec)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("empty blob fails", func(t *testing.T) {
		_, err := provider.Unwrap(ctx, nil, ec)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("all unwrap failures read identically", func(t *testing.T) {
		blob, err := provider.Wrap(ctx, derivedKey, ec)
		require.NoError(t, err)

		tampered := append([]byte(nil), blob...)
		tampered[len(tampered)-1] ^= 1

		_, tamperErr := provider.Unwrap(ctx, tampered, ec)
		_, contextErr := provider.Unwrap(ctx, blob, credentialDomain.EncryptionContext{"device": "other"})
		_, garbageErr := provider.Unwrap(ctx, []byte("garbage"), ec)

		require.Error(t, tamperErr)
		assert.EqualError(t, contextErr, tamperErr.Error())
		assert.EqualError(t, garbageErr, tamperErr.Error())
	})
}

func TestRemoteEnvelopeProvider_PlaintextCeiling(t *testing.T) {
	ctx := context.Background()
	provider := newTestRemoteProvider(t, openTestKeeper(t), credentialDomain.AESGCM)

	t.Run("empty plaintext is rejected", func(t *testing.T) {
		_, err := provider.Wrap(ctx, nil, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("plaintext at the ceiling is accepted", func(t *testing.T) {
		payload := bytes.Repeat([]byte{0x42}, credentialDomain.MaxWrapPlaintextSize)

		blob, err := provider.Wrap(ctx, payload, nil)
		require.NoError(t, err)

		opened, err := provider.Unwrap(ctx, blob, nil)
		require.NoError(t, err)
		assert.Equal(t, payload, opened)
	})

	t.Run("plaintext one byte over the ceiling is rejected", func(t *testing.T) {
		payload := bytes.Repeat([]byte{0x42}, credentialDomain.MaxWrapPlaintextSize+1)

		_, err := provider.Wrap(ctx, payload, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrPlaintextTooLarge)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("oversized plaintext is rejected", func(t *testing.T) {
		_, err := provider.Wrap(ctx, make([]byte, 5000), nil)
		assert.ErrorIs(t, err, credentialDomain.ErrPlaintextTooLarge)
	})
}

func TestRemoteEnvelopeProvider_AlgorithmAgility(t *testing.T) {
	ctx := context.Background()
	keeper := openTestKeeper(t)

	aesProvider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)
	chachaProvider := newTestRemoteProvider(t, keeper, credentialDomain.ChaCha20)

	key := make([]byte, credentialDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	// The envelope records its own algorithm, so a provider reconfigured to a
	// different AEAD still opens blobs wrapped before the change.
	blob, err := aesProvider.Wrap(ctx, key, nil)
	require.NoError(t, err)

	opened, err := chachaProvider.Unwrap(ctx, blob, nil)
	require.NoError(t, err)
	assert.Equal(t, key, opened)
}

func TestRemoteEnvelopeProvider_IdentityIsolation(t *testing.T) {
	ctx := context.Background()
	keeper := openTestKeeper(t)

	provider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)

	otherIdentity := testIdentity()
	otherIdentity[credentialDomain.ContextKeyApplication] = "another-app"
	otherProvider, err := NewRemoteEnvelopeProvider(
		keeper, NewAEADManager(), credentialDomain.AESGCM, otherIdentity, 0, testLogger())
	require.NoError(t, err)

	key := make([]byte, credentialDomain.KeySize)
	_, err = rand.Read(key)
	require.NoError(t, err)

	blob, err := provider.Wrap(ctx, key, nil)
	require.NoError(t, err)

	// Same keeper, different provider identity: the AAD no longer matches.
	_, err = otherProvider.Unwrap(ctx, blob, nil)
	assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
}

func TestRemoteEnvelopeProvider_EnvelopeValidation(t *testing.T) {
	ctx := context.Background()
	provider := newTestRemoteProvider(t, &fakeKeeper{}, credentialDomain.AESGCM)

	key := make([]byte, credentialDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	blob, err := provider.Wrap(ctx, key, nil)
	require.NoError(t, err)

	mutate := func(t *testing.T, change func(*wrappedEnvelope)) []byte {
		t.Helper()
		var envelope wrappedEnvelope
		require.NoError(t, cbor.Unmarshal(blob, &envelope))
		change(&envelope)
		mutated, err := cbor.Marshal(envelope)
		require.NoError(t, err)
		return mutated
	}

	t.Run("unknown version", func(t *testing.T) {
		mutated := mutate(t, func(e *wrappedEnvelope) { e.Version = 99 })
		_, err := provider.Unwrap(ctx, mutated, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("foreign provider name", func(t *testing.T) {
		mutated := mutate(t, func(e *wrappedEnvelope) { e.Provider = credentialDomain.ProviderLocal })
		_, err := provider.Unwrap(ctx, mutated, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		mutated := mutate(t, func(e *wrappedEnvelope) { e.Algorithm = "rot13" })
		_, err := provider.Unwrap(ctx, mutated, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("swapped algorithm fails authentication", func(t *testing.T) {
		mutated := mutate(t, func(e *wrappedEnvelope) { e.Algorithm = string(credentialDomain.ChaCha20) })
		_, err := provider.Unwrap(ctx, mutated, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
	})

	t.Run("valid envelope still opens", func(t *testing.T) {
		opened, err := provider.Unwrap(ctx, blob, nil)
		require.NoError(t, err)
		assert.Equal(t, key, opened)
	})
}

func TestRemoteEnvelopeProvider_KeeperFailures(t *testing.T) {
	ctx := context.Background()

	key := make([]byte, credentialDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	t.Run("keeper encrypt failure surfaces as wrap failure", func(t *testing.T) {
		keeper := &fakeKeeper{encryptErr: errors.New("kms rejected the request")}
		provider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)

		_, err := provider.Wrap(ctx, key, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrWrapFailed)
		assert.ErrorContains(t, err, "kms rejected the request")
	})

	t.Run("keeper encrypt deadline surfaces as provider timeout", func(t *testing.T) {
		keeper := &fakeKeeper{encryptErr: context.DeadlineExceeded}
		provider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)

		_, err := provider.Wrap(ctx, key, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrProviderTimeout)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	})

	t.Run("keeper decrypt failure collapses into unwrap failure", func(t *testing.T) {
		keeper := &fakeKeeper{}
		provider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)

		blob, err := provider.Wrap(ctx, key, nil)
		require.NoError(t, err)

		keeper.decryptErr = errors.New("access denied")
		_, err = provider.Unwrap(ctx, blob, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrUnwrapFailed)
		assert.NotContains(t, err.Error(), "access denied")
	})

	t.Run("keeper decrypt deadline surfaces as provider timeout", func(t *testing.T) {
		keeper := &fakeKeeper{}
		provider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)

		blob, err := provider.Wrap(ctx, key, nil)
		require.NoError(t, err)

		keeper.decryptErr = context.DeadlineExceeded
		_, err = provider.Unwrap(ctx, blob, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrProviderTimeout)
	})
}

func TestRemoteEnvelopeProvider_ConfiguredDeadline(t *testing.T) {
	ctx := context.Background()

	key := make([]byte, credentialDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	t.Run("slow keeper encrypt hits the configured deadline", func(t *testing.T) {
		provider, err := NewRemoteEnvelopeProvider(
			&slowKeeper{}, NewAEADManager(), credentialDomain.AESGCM, testIdentity(), 20*time.Millisecond, testLogger())
		require.NoError(t, err)

		_, err = provider.Wrap(ctx, key, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrProviderTimeout)
	})

	t.Run("slow keeper decrypt hits the configured deadline", func(t *testing.T) {
		wrapProvider, err := NewRemoteEnvelopeProvider(
			&fakeKeeper{}, NewAEADManager(), credentialDomain.AESGCM, testIdentity(), 0, testLogger())
		require.NoError(t, err)

		blob, err := wrapProvider.Wrap(ctx, key, nil)
		require.NoError(t, err)

		unwrapProvider, err := NewRemoteEnvelopeProvider(
			&slowKeeper{}, NewAEADManager(), credentialDomain.AESGCM, testIdentity(), 20*time.Millisecond, testLogger())
		require.NoError(t, err)

		_, err = unwrapProvider.Unwrap(ctx, blob, nil)
		assert.ErrorIs(t, err, credentialDomain.ErrProviderTimeout)
	})
}

func TestRemoteEnvelopeProvider_NameAndClose(t *testing.T) {
	keeper := &fakeKeeper{}
	provider := newTestRemoteProvider(t, keeper, credentialDomain.AESGCM)

	assert.Equal(t, credentialDomain.ProviderRemote, provider.Name())

	require.NoError(t, provider.Close())
	assert.True(t, keeper.closed)
}
