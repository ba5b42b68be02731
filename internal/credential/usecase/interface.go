// Package usecase implements the double-layer credential protection protocol.
// It composes deterministic key derivation with envelope wrapping into four
// stateless operations: enroll, verify, update, and delete. The service keeps
// no credential state between calls; callers persist the wrapped key blob and
// its encryption context and present both on every verification.
package usecase

import (
	"context"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
)

// CredentialUsecase defines the business operations for protecting
// multi-factor credentials.
type CredentialUsecase interface {
	// Enroll derives a credential key from the factor set, wraps it, and
	// returns the wrapped blob together with the exact encryption context it
	// was bound to. Callers must persist both.
	Enroll(
		ctx context.Context,
		accountID string,
		factors credentialDomain.FactorDigestSet,
		ec credentialDomain.EncryptionContext,
	) (*credentialDomain.Enrollment, error)

	// Verify checks a factor set against a previously enrolled credential.
	// The result is uniform: it never explains why a check failed, and every
	// internal error reads as a failed verification.
	Verify(
		ctx context.Context,
		accountID string,
		factors credentialDomain.FactorDigestSet,
		wrappedKey string,
		ec credentialDomain.EncryptionContext,
	) *credentialDomain.VerificationResult

	// Update replaces the factor set after proving knowledge of the current
	// one. A failed proof returns ErrReauthenticationFailed; on success the
	// returned enrollment supersedes the old blob and context.
	Update(
		ctx context.Context,
		accountID string,
		oldFactors, newFactors credentialDomain.FactorDigestSet,
		wrappedKey string,
		ec credentialDomain.EncryptionContext,
	) (*credentialDomain.Enrollment, error)

	// Delete acknowledges credential destruction. The service holds no state,
	// so deletion is the caller discarding the blob; the receipt records why
	// that constitutes cryptographic erasure.
	Delete(
		ctx context.Context,
		accountID string,
		reason string,
	) (*credentialDomain.DeletionReceipt, error)
}
