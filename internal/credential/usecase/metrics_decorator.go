package usecase

import (
	"context"
	"time"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	"github.com/allisson/credvault/internal/metrics"
)

// credentialUsecaseWithMetrics decorates CredentialUsecase with metrics
// instrumentation.
type credentialUsecaseWithMetrics struct {
	next    CredentialUsecase
	metrics metrics.BusinessMetrics
}

// NewCredentialUsecaseWithMetrics wraps a CredentialUsecase with metrics
// recording.
func NewCredentialUsecaseWithMetrics(
	useCase CredentialUsecase,
	m metrics.BusinessMetrics,
) CredentialUsecase {
	return &credentialUsecaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Enroll records metrics for credential enrollment operations.
func (c *credentialUsecaseWithMetrics) Enroll(
	ctx context.Context,
	accountID string,
	factors credentialDomain.FactorDigestSet,
	ec credentialDomain.EncryptionContext,
) (*credentialDomain.Enrollment, error) {
	start := time.Now()
	enrollment, err := c.next.Enroll(ctx, accountID, factors, ec)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credential", "enroll", status)
	c.metrics.RecordDuration(ctx, "credential", "enroll", time.Since(start), status)

	return enrollment, err
}

// Verify records metrics for credential verification operations. A negative
// verification is a "failure", distinct from the "error" status used when an
// operation breaks; verification never breaks outwardly.
func (c *credentialUsecaseWithMetrics) Verify(
	ctx context.Context,
	accountID string,
	factors credentialDomain.FactorDigestSet,
	wrappedKey string,
	ec credentialDomain.EncryptionContext,
) *credentialDomain.VerificationResult {
	start := time.Now()
	result := c.next.Verify(ctx, accountID, factors, wrappedKey, ec)

	status := "success"
	if !result.Success {
		status = "failure"
	}

	c.metrics.RecordOperation(ctx, "credential", "verify", status)
	c.metrics.RecordDuration(ctx, "credential", "verify", time.Since(start), status)

	return result
}

// Update records metrics for factor update operations.
func (c *credentialUsecaseWithMetrics) Update(
	ctx context.Context,
	accountID string,
	oldFactors, newFactors credentialDomain.FactorDigestSet,
	wrappedKey string,
	ec credentialDomain.EncryptionContext,
) (*credentialDomain.Enrollment, error) {
	start := time.Now()
	enrollment, err := c.next.Update(ctx, accountID, oldFactors, newFactors, wrappedKey, ec)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credential", "update", status)
	c.metrics.RecordDuration(ctx, "credential", "update", time.Since(start), status)

	return enrollment, err
}

// Delete records metrics for credential deletion operations.
func (c *credentialUsecaseWithMetrics) Delete(
	ctx context.Context,
	accountID string,
	reason string,
) (*credentialDomain.DeletionReceipt, error) {
	start := time.Now()
	receipt, err := c.next.Delete(ctx, accountID, reason)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "credential", "delete", status)
	c.metrics.RecordDuration(ctx, "credential", "delete", time.Since(start), status)

	return receipt, err
}
