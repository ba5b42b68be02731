package usecase

import (
	"context"
	"encoding/hex"
	"log/slog"
	"strconv"
	"time"

	"github.com/jellydator/validation"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	credentialService "github.com/allisson/credvault/internal/credential/service"
	apperrors "github.com/allisson/credvault/internal/errors"
	"github.com/allisson/credvault/internal/securemem"
	appValidation "github.com/allisson/credvault/internal/validation"
)

// credentialUsecase implements the CredentialUsecase interface.
type credentialUsecase struct {
	keyDeriver credentialService.KeyDeriver
	keyWrapper credentialService.KeyWrapper
	logger     *slog.Logger
	now        func() time.Time
}

// Enroll protects a credential: derive the key from the factor set, merge the
// reserved context entries over the caller context, wrap the key bound to that
// merged context, and return the blob with the exact context for persistence.
func (u *credentialUsecase) Enroll(
	ctx context.Context,
	accountID string,
	factors credentialDomain.FactorDigestSet,
	ec credentialDomain.EncryptionContext,
) (*credentialDomain.Enrollment, error) {
	account, err := credentialDomain.ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	if err := validateFactorCount(factors); err != nil {
		return nil, err
	}
	if err := ec.Validate(); err != nil {
		return nil, err
	}

	derivedKey, err := u.keyDeriver.Derive(account, factors)
	if err != nil {
		return nil, err
	}
	defer securemem.Wipe(derivedKey)

	// Reserved entries win over caller-supplied values under the same keys.
	now := u.now().UTC()
	enrollmentCtx := credentialDomain.EncryptionContext{
		credentialDomain.ContextKeyAccountID:   account.String(),
		credentialDomain.ContextKeyFactorCount: strconv.Itoa(len(factors)),
		credentialDomain.ContextKeyTimestamp:   now.Format(time.RFC3339),
	}.Merge(ec)

	wrapped, err := u.keyWrapper.Wrap(ctx, derivedKey, enrollmentCtx)
	if err != nil {
		return nil, err
	}

	u.logger.Info("credential enrolled",
		slog.String("account_id", account.String()),
		slog.Int("factor_count", len(factors)),
		slog.String("provider", u.keyWrapper.Name()))

	return &credentialDomain.Enrollment{
		AccountID:   account,
		WrappedKey:  hex.EncodeToString(wrapped),
		Context:     enrollmentCtx,
		FactorCount: len(factors),
		Algorithm:   u.keyWrapper.Algorithm(),
		Provider:    u.keyWrapper.Name(),
		CreatedAt:   now,
	}, nil
}

// Verify checks a factor set against a previously enrolled credential.
//
// The wrapped blob is opened under the presented context with the account
// identifier re-pinned, then the derived key is recomputed and compared in
// constant time. Every failure, from a malformed input to a tampered blob,
// produces the same negative result; causes are logged at debug level only.
func (u *credentialUsecase) Verify(
	ctx context.Context,
	accountID string,
	factors credentialDomain.FactorDigestSet,
	wrappedKey string,
	ec credentialDomain.EncryptionContext,
) *credentialDomain.VerificationResult {
	account, err := credentialDomain.ParseAccountID(accountID)
	if err != nil {
		return u.failVerification("account id", err)
	}
	if err := validateFactorCount(factors); err != nil {
		return u.failVerification("factor count", err)
	}
	blob, err := hex.DecodeString(wrappedKey)
	if err != nil {
		return u.failVerification("wrapped key encoding", err)
	}
	if len(blob) == 0 {
		return u.failVerification("empty wrapped key", nil)
	}

	// Re-pinning the account identifier ensures a blob enrolled for another
	// account never opens here, even when the rest of the context matches.
	merged := credentialDomain.EncryptionContext{
		credentialDomain.ContextKeyAccountID: account.String(),
	}.Merge(ec)

	expected, err := u.keyWrapper.Unwrap(ctx, blob, merged)
	if err != nil {
		if apperrors.Is(err, credentialDomain.ErrProviderTimeout) {
			u.logger.Warn("verification aborted by provider timeout", slog.Any("error", err))
			return credentialDomain.NewVerificationResult(false)
		}
		return u.failVerification("unwrap", err)
	}
	defer securemem.Wipe(expected)

	return credentialDomain.NewVerificationResult(u.keyDeriver.Verify(account, factors, expected))
}

// Update replaces the factor set after a successful proof of the current one.
func (u *credentialUsecase) Update(
	ctx context.Context,
	accountID string,
	oldFactors, newFactors credentialDomain.FactorDigestSet,
	wrappedKey string,
	ec credentialDomain.EncryptionContext,
) (*credentialDomain.Enrollment, error) {
	account, err := credentialDomain.ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	if err := validateFactorCount(newFactors); err != nil {
		return nil, err
	}

	result := u.Verify(ctx, accountID, oldFactors, wrappedKey, ec)
	if !result.Success {
		return nil, credentialDomain.ErrReauthenticationFailed
	}

	enrollment, err := u.Enroll(ctx, accountID, newFactors, ec)
	if err != nil {
		return nil, err
	}

	u.logger.Info("credential factors updated",
		slog.String("account_id", account.String()),
		slog.Int("factor_count", len(newFactors)))

	return enrollment, nil
}

// Delete acknowledges destruction of a protected credential.
func (u *credentialUsecase) Delete(
	ctx context.Context,
	accountID string,
	reason string,
) (*credentialDomain.DeletionReceipt, error) {
	account, err := credentialDomain.ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	if err := validation.Validate(reason,
		validation.RuneLength(0, credentialDomain.MaxDeleteReasonLength),
		appValidation.NotBlank); err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	u.logger.Info("credential deleted",
		slog.String("account_id", account.String()),
		slog.String("reason", reason))

	return &credentialDomain.DeletionReceipt{
		AccountID: account,
		Reason:    reason,
		DeletedAt: u.now().UTC(),
		Note:      credentialDomain.CryptographicErasureNote,
	}, nil
}

func (u *credentialUsecase) failVerification(
	reason string,
	err error,
) *credentialDomain.VerificationResult {
	if err != nil {
		u.logger.Debug("verification rejected", slog.String("reason", reason), slog.Any("error", err))
	} else {
		u.logger.Debug("verification rejected", slog.String("reason", reason))
	}
	return credentialDomain.NewVerificationResult(false)
}

func validateFactorCount(factors credentialDomain.FactorDigestSet) error {
	if len(factors) < credentialDomain.MinFactorCount || len(factors) > credentialDomain.MaxFactorCount {
		return apperrors.Wrapf(
			credentialDomain.ErrFactorCount,
			"got %d factors, policy allows %d to %d",
			len(factors), credentialDomain.MinFactorCount, credentialDomain.MaxFactorCount,
		)
	}
	return nil
}

// NewCredentialUsecase creates a credential use case instance with the
// provided dependencies.
func NewCredentialUsecase(
	keyDeriver credentialService.KeyDeriver,
	keyWrapper credentialService.KeyWrapper,
	logger *slog.Logger,
) CredentialUsecase {
	return &credentialUsecase{
		keyDeriver: keyDeriver,
		keyWrapper: keyWrapper,
		logger:     logger,
		now:        time.Now,
	}
}
