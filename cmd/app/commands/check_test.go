package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	credentialService "github.com/allisson/credvault/internal/credential/service"
	credentialUsecase "github.com/allisson/credvault/internal/credential/usecase"
)

// newCheckUsecase wires a real use case over an ephemeral local provider.
// Argon2id with a small memory cost keeps derivation fast in tests.
func newCheckUsecase(t *testing.T) credentialUsecase.CredentialUsecase {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	keyDeriver, err := credentialService.NewKDFService(credentialService.KDFParams{
		Algorithm:      credentialDomain.Argon2id,
		Argon2MemoryMB: 8,
		Argon2Time:     1,
		Argon2Threads:  1,
	})
	require.NoError(t, err)

	keyWrapper, err := credentialService.NewEphemeralLocalEnvelopeProvider(
		credentialService.NewAEADManager(),
		credentialDomain.AESGCM,
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = keyWrapper.Close() })

	return credentialUsecase.NewCredentialUsecase(keyDeriver, keyWrapper, logger)
}

func TestRunCheck(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("full-lifecycle", func(t *testing.T) {
		useCase := newCheckUsecase(t)

		var out bytes.Buffer
		err := RunCheck(ctx, useCase, logger, &out, 3, 2)

		require.NoError(t, err)
		require.Contains(t, out.String(), "self-check passed: 3 round(s)")
	})

	t.Run("single-round-single-worker", func(t *testing.T) {
		useCase := newCheckUsecase(t)

		var out bytes.Buffer
		err := RunCheck(ctx, useCase, logger, &out, 1, 1)

		require.NoError(t, err)
		require.Contains(t, out.String(), "self-check passed: 1 round(s)")
	})

	t.Run("invalid-rounds", func(t *testing.T) {
		useCase := &mockCredentialUsecase{}

		err := RunCheck(ctx, useCase, logger, &bytes.Buffer{}, 0, 2)

		require.Error(t, err)
		require.Contains(t, err.Error(), "rounds must be greater than 0")
	})

	t.Run("invalid-workers", func(t *testing.T) {
		useCase := &mockCredentialUsecase{}

		err := RunCheck(ctx, useCase, logger, &bytes.Buffer{}, 2, 0)

		require.Error(t, err)
		require.Contains(t, err.Error(), "workers must be greater than 0")
	})

	t.Run("provider-failure-surfaces", func(t *testing.T) {
		mockUseCase := &mockCredentialUsecase{}
		mockUseCase.On("Enroll", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("provider unavailable"))

		var out bytes.Buffer
		err := RunCheck(ctx, mockUseCase, logger, &out, 2, 1)

		require.Error(t, err)
		require.Contains(t, err.Error(), "self-check failed")
		require.Contains(t, err.Error(), "enroll")
		require.NotContains(t, out.String(), "self-check passed")
	})
}
