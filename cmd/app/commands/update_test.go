package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
)

func TestRunUpdate(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accountID := "550e8400-e29b-41d4-a716-446655440000"
	oldFactorArgs := []string{"PIN=aa"}
	newFactorArgs := []string{"PIN=bb"}
	oldFactors := credentialDomain.FactorDigestSet{"PIN": "aa"}
	newFactors := credentialDomain.FactorDigestSet{"PIN": "bb"}
	wrappedKey := "deadbeef"

	enrollment := &credentialDomain.Enrollment{
		AccountID:   credentialDomain.AccountID(accountID),
		WrappedKey:  "cafef00d",
		Context:     credentialDomain.EncryptionContext{"account_id": accountID},
		FactorCount: 1,
		Algorithm:   credentialDomain.AESGCM,
		Provider:    credentialDomain.ProviderLocal,
		CreatedAt:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}

	t.Run("success", func(t *testing.T) {
		mockUseCase := &mockCredentialUsecase{}
		mockUseCase.On("Update", ctx, accountID, oldFactors, newFactors, wrappedKey, credentialDomain.EncryptionContext(nil)).
			Return(enrollment, nil)

		var out bytes.Buffer
		err := RunUpdate(
			ctx, mockUseCase, logger, &out,
			accountID, oldFactorArgs, nil, newFactorArgs, nil, wrappedKey, nil, "json",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), `"wrapped_key": "cafef00d"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockCredentialUsecase{}
		mockUseCase.On("Update", ctx, accountID, oldFactors, newFactors, wrappedKey, credentialDomain.EncryptionContext(nil)).
			Return(enrollment, nil)

		var out bytes.Buffer
		err := RunUpdate(
			ctx, mockUseCase, logger, &out,
			accountID, oldFactorArgs, nil, newFactorArgs, nil, wrappedKey, nil, "text",
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), "Replace the previously stored wrapped key")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("reauthentication-failure", func(t *testing.T) {
		mockUseCase := &mockCredentialUsecase{}
		mockUseCase.On("Update", ctx, accountID, oldFactors, newFactors, wrappedKey, credentialDomain.EncryptionContext(nil)).
			Return(nil, credentialDomain.ErrReauthenticationFailed)

		var out bytes.Buffer
		err := RunUpdate(
			ctx, mockUseCase, logger, &out,
			accountID, oldFactorArgs, nil, newFactorArgs, nil, wrappedKey, nil, "json",
		)

		require.ErrorIs(t, err, credentialDomain.ErrReauthenticationFailed)
		require.Contains(t, err.Error(), "failed to update credential")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-old-factor-argument", func(t *testing.T) {
		mockUseCase := &mockCredentialUsecase{}

		var out bytes.Buffer
		err := RunUpdate(
			ctx, mockUseCase, logger, &out,
			accountID, []string{"PIN"}, nil, newFactorArgs, nil, wrappedKey, nil, "json",
		)

		require.Error(t, err)
		mockUseCase.AssertNotCalled(t, "Update")
	})

	t.Run("invalid-new-factor-argument", func(t *testing.T) {
		mockUseCase := &mockCredentialUsecase{}

		var out bytes.Buffer
		err := RunUpdate(
			ctx, mockUseCase, logger, &out,
			accountID, oldFactorArgs, nil, []string{"="}, nil, wrappedKey, nil, "json",
		)

		require.Error(t, err)
		mockUseCase.AssertNotCalled(t, "Update")
	})
}
