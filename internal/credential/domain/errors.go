package domain

import (
	"github.com/allisson/credvault/internal/errors"
)

// Credential protection error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so
// callers can classify failures with errors.Is without string matching. The
// verification surface never exposes any of them; it collapses every internal
// failure into a uniform negative result.
var (
	// ErrUnsupportedAlgorithm indicates the requested algorithm is not supported.
	//
	// Supported AEAD algorithms: AESGCM (AES-256-GCM), ChaCha20 (ChaCha20-Poly1305).
	// Supported KDF algorithms: PBKDF2SHA256, Argon2id.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a cryptographic key has the wrong length.
	// All keys in the hierarchy are exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidAccountID indicates the account identifier is not a UUID version 4.
	ErrInvalidAccountID = errors.Wrap(errors.ErrInvalidInput, "invalid account id")

	// ErrInvalidFactorName indicates a factor name is blank, too long, or
	// contains non-printable characters.
	ErrInvalidFactorName = errors.Wrap(errors.ErrInvalidInput, "invalid factor name")

	// ErrInvalidFactorDigest indicates a factor digest is not the hex encoding
	// of exactly 32 bytes.
	ErrInvalidFactorDigest = errors.Wrap(errors.ErrInvalidInput, "invalid factor digest")

	// ErrFactorCount indicates the factor set size is outside the enrollment
	// policy range [MinFactorCount, MaxFactorCount].
	ErrFactorCount = errors.Wrap(errors.ErrInvalidInput, "factor count out of range")

	// ErrInvalidContext indicates an encryption context entry violates the
	// key or value constraints.
	ErrInvalidContext = errors.Wrap(errors.ErrInvalidInput, "invalid encryption context")

	// ErrPlaintextTooLarge indicates a wrap request exceeds MaxWrapPlaintextSize.
	ErrPlaintextTooLarge = errors.Wrap(errors.ErrInvalidInput, "plaintext too large")

	// ErrWrapFailed indicates key wrapping failed.
	//
	// The message intentionally carries no cause. Details go to logs and
	// metrics, never to callers.
	ErrWrapFailed = errors.New("key wrapping failed")

	// ErrUnwrapFailed indicates key unwrapping failed.
	//
	// Wrong context, tampered blob, corrupt envelope, and provider rejection
	// all produce this same error. Fine-grained causes would hand an attacker
	// an oracle; they go to logs and metrics only.
	ErrUnwrapFailed = errors.New("key unwrapping failed")

	// ErrReauthenticationFailed indicates a factor update was attempted
	// without first proving knowledge of the current factors.
	ErrReauthenticationFailed = errors.Wrap(errors.ErrUnauthorized, "reauthentication failed")

	// ErrProviderUnavailable indicates the key wrapping provider cannot be
	// reached or constructed.
	ErrProviderUnavailable = errors.Wrap(errors.ErrUnavailable, "key wrapping provider unavailable")

	// ErrProviderTimeout indicates a wrap or unwrap round trip exceeded its deadline.
	ErrProviderTimeout = errors.Wrap(errors.ErrUnavailable, "key wrapping provider timeout")

	// ErrMasterKeyRequired indicates the local provider was configured without
	// usable master key material where an ephemeral key is not acceptable.
	ErrMasterKeyRequired = errors.Wrap(errors.ErrInvalidInput, "local master key required")

	// ErrLocalProviderInProduction indicates the application refused to start
	// because the local wrapping provider was selected in production.
	ErrLocalProviderInProduction = errors.Wrap(
		errors.ErrForbidden,
		"local key wrapping provider not allowed in production",
	)
)
