package domain

import (
	"time"
)

// Fixed verification messages. Exactly two strings exist so response content
// never distinguishes why a check failed.
const (
	VerificationSucceededMessage = "verification succeeded"
	VerificationFailedMessage    = "verification failed"
)

// CryptographicErasureNote documents why destroying the wrapped blob is
// sufficient deletion: no plaintext credential key exists at rest, so the blob
// is the only recoverable artifact.
const CryptographicErasureNote = "wrapped key blob destroyed; without it the credential key is unrecoverable"

// Enrollment is the result of protecting a credential: the wrapped key blob
// and the exact encryption context it was bound to. Callers must persist both,
// since unwrapping requires the byte-identical context.
type Enrollment struct {
	AccountID   AccountID         `json:"account_id"`
	WrappedKey  string            `json:"wrapped_key"` // hex-encoded wrapped key blob
	Context     EncryptionContext `json:"context"`
	FactorCount int               `json:"factor_count"`
	Algorithm   Algorithm         `json:"algorithm"`
	Provider    string            `json:"provider"`
	CreatedAt   time.Time         `json:"created_at"`
}

// VerificationResult reports the outcome of a factor check. Message is always
// one of the two fixed verification messages; internal failure causes are
// logged and measured but never surfaced here.
type VerificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewVerificationResult builds the uniform result for the given outcome.
func NewVerificationResult(success bool) *VerificationResult {
	if success {
		return &VerificationResult{Success: true, Message: VerificationSucceededMessage}
	}
	return &VerificationResult{Success: false, Message: VerificationFailedMessage}
}

// DeletionReceipt acknowledges a credential deletion request for audit
// purposes. The service holds no state; destroying the persisted blob is the
// caller's storage operation, and the receipt records why that constitutes
// cryptographic erasure.
type DeletionReceipt struct {
	AccountID AccountID `json:"account_id"`
	Reason    string    `json:"reason"`
	DeletedAt time.Time `json:"deleted_at"`
	Note      string    `json:"note"`
}
