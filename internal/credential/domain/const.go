// Package domain defines the core domain models for double-layer credential
// protection.
//
// Layer 1 deterministically derives a credential key from an account identifier
// and a set of authentication factor digests. Layer 2 wraps that key through an
// external key-management capability so possession of stored material alone
// never yields a usable key. The service holds no credential state; callers
// persist the wrapped blob and its encryption context.
package domain

// Algorithm represents the AEAD algorithm used for envelope sealing.
//
// All supported algorithms provide Authenticated Encryption with Associated
// Data (AEAD), binding the encryption context to the sealed key so a blob
// presented under a different context fails authentication.
//
// Algorithm selection guidelines:
//   - Use AESGCM on modern CPUs with AES-NI hardware acceleration
//   - Use ChaCha20 on mobile devices or systems without AES-NI
//   - Both provide equivalent 256-bit security when used correctly
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Hardware acceleration on modern CPUs
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Constant-time implementation, excellent software performance
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string into an Algorithm.
// Returns ErrUnsupportedAlgorithm for unknown values.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// KDFAlgorithm represents the key derivation function for Layer 1.
//
// Both options are deliberately slow, iterated constructions so that factor
// digests cannot be brute-forced cheaply if wrapped material and context leak
// together.
type KDFAlgorithm string

const (
	// PBKDF2SHA256 is PBKDF2 with HMAC-SHA-256. The default; iteration count
	// is configurable but never below MinKDFIterations.
	PBKDF2SHA256 KDFAlgorithm = "pbkdf2-sha256"

	// Argon2id is the memory-hard Argon2id function, for deployments that
	// prefer memory hardness over raw iteration count.
	Argon2id KDFAlgorithm = "argon2id"
)

// ParseKDFAlgorithm converts a configuration string into a KDFAlgorithm.
// Returns ErrUnsupportedAlgorithm for unknown values.
func ParseKDFAlgorithm(s string) (KDFAlgorithm, error) {
	switch KDFAlgorithm(s) {
	case PBKDF2SHA256:
		return PBKDF2SHA256, nil
	case Argon2id:
		return Argon2id, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// Key and envelope geometry.
const (
	// KeySize is the length in bytes of derived credential keys, data
	// encryption keys, and master keys (256 bits).
	KeySize = 32

	// NonceSize is the AEAD nonce length in bytes (96 bits).
	NonceSize = 12

	// TagSize is the AEAD authentication tag length in bytes (128 bits).
	TagSize = 16

	// MaxWrapPlaintextSize is the largest plaintext the remote wrapping
	// provider accepts, in bytes. Keys are small; anything larger signals
	// misuse of the wrap surface.
	MaxWrapPlaintextSize = 4096
)

// Factor set policy.
const (
	// MinFactorCount is the smallest factor set the protocol enrolls.
	// Single-factor enrollment defeats the purpose of multi-factor protection.
	MinFactorCount = 2

	// MaxFactorCount is the largest factor set the protocol enrolls.
	MaxFactorCount = 10

	// DigestHexLength is the expected length of a hex-encoded factor digest
	// (32 bytes of digest material).
	DigestHexLength = 64

	// MaxFactorNameLength bounds factor name length.
	MaxFactorNameLength = 64
)

// Encryption context bounds. Contexts are non-secret metadata; the limits
// keep canonical encodings small and AAD costs predictable.
const (
	MaxContextKeyLength   = 128
	MaxContextValueLength = 512
)

// MaxDeleteReasonLength bounds the free-text reason recorded on deletion receipts.
const MaxDeleteReasonLength = 256

// Key derivation parameters.
const (
	// KDFSaltPrefix is the version-prefixed domain separator for derivation
	// salts. Bumping the version invalidates all previously derived keys.
	KDFSaltPrefix = "credvault/kdf/v1:"

	// MinKDFIterations is the floor for PBKDF2 iteration counts.
	// Configuration may raise the count, never lower it.
	MinKDFIterations = 100_000
)

// Reserved encryption context keys injected by the protocol. Caller-supplied
// values under these keys are overwritten during enrollment.
const (
	ContextKeyAccountID   = "account_id"
	ContextKeyFactorCount = "factor_count"
	ContextKeyTimestamp   = "timestamp"
)

// Identity context keys injected by wrapping providers.
const (
	ContextKeyApplication = "application"
	ContextKeyVersion     = "version"
	ContextKeyPurpose     = "purpose"
)

// WrapPurpose is the value bound under ContextKeyPurpose by wrapping providers.
const WrapPurpose = "credential-wrapping"

// Wrapping provider names, recorded in enrollment records and remote envelopes.
const (
	ProviderRemote = "remote"
	ProviderLocal  = "local"
)
