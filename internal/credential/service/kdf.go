package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	credentialDomain "github.com/allisson/credvault/internal/credential/domain"
	apperrors "github.com/allisson/credvault/internal/errors"
	"github.com/allisson/credvault/internal/securemem"
)

// KDFParams captures tunable parameters for the key derivation engine.
type KDFParams struct {
	// Algorithm selects the derivation function.
	Algorithm credentialDomain.KDFAlgorithm
	// Iterations is the PBKDF2 iteration count. Ignored by Argon2id.
	Iterations int
	// Argon2MemoryMB is the Argon2id memory cost in MiB. Ignored by PBKDF2.
	Argon2MemoryMB uint32
	// Argon2Time is the Argon2id time cost. Ignored by PBKDF2.
	Argon2Time uint32
	// Argon2Threads is the Argon2id parallelism degree. Ignored by PBKDF2.
	Argon2Threads uint8
}

// DefaultKDFParams returns the production profile: PBKDF2-HMAC-SHA256 at the
// iteration floor, with an Argon2id profile prefilled for deployments that
// switch algorithms.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Algorithm:      credentialDomain.PBKDF2SHA256,
		Iterations:     credentialDomain.MinKDFIterations,
		Argon2MemoryMB: 64,
		Argon2Time:     3,
		Argon2Threads:  4,
	}
}

// KDFService implements KeyDeriver. Derivation is fully deterministic: the
// account identifier fixes the salt, the lexicographically ordered factor
// digests form the input, and the configured function stretches both into a
// 256-bit credential key. No per-call randomness means the key can always be
// re-derived from the same factors, which is what verification relies on.
type KDFService struct {
	params KDFParams
}

// NewKDFService creates a derivation engine after validating the parameters.
// PBKDF2 iteration counts below the floor are rejected rather than clamped so
// a weak configuration fails loudly at startup.
func NewKDFService(params KDFParams) (*KDFService, error) {
	switch params.Algorithm {
	case credentialDomain.PBKDF2SHA256:
		if params.Iterations < credentialDomain.MinKDFIterations {
			return nil, apperrors.Wrapf(
				apperrors.ErrInvalidInput,
				"kdf iterations %d below minimum %d",
				params.Iterations,
				credentialDomain.MinKDFIterations,
			)
		}
	case credentialDomain.Argon2id:
		if params.Argon2MemoryMB == 0 || params.Argon2Time == 0 || params.Argon2Threads == 0 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "argon2id parameters must be non-zero")
		}
	default:
		return nil, credentialDomain.ErrUnsupportedAlgorithm
	}

	return &KDFService{params: params}, nil
}

// Derive computes the credential key for the account and factor set.
//
// Input assembly: factor digests are decoded and concatenated in
// lexicographic name order, so map iteration order never influences the
// result. Salt: the versioned domain prefix plus the canonical account
// identifier, which separates keys across accounts sharing identical factors.
// The intermediate concatenation buffer is wiped before return; the caller
// owns and must wipe the returned key.
func (k *KDFService) Derive(
	accountID credentialDomain.AccountID,
	factors credentialDomain.FactorDigestSet,
) ([]byte, error) {
	if accountID == "" {
		return nil, credentialDomain.ErrInvalidAccountID
	}
	if err := factors.Validate(); err != nil {
		return nil, err
	}

	input := make([]byte, 0, len(factors)*credentialDomain.KeySize)
	defer func() { securemem.Wipe(input) }()

	for _, name := range factors.SortedNames() {
		digest, err := factors.DigestBytes(name)
		if err != nil {
			return nil, err
		}
		input = append(input, digest...)
		securemem.Wipe(digest)
	}

	salt := []byte(credentialDomain.KDFSaltPrefix + accountID.String())

	switch k.params.Algorithm {
	case credentialDomain.PBKDF2SHA256:
		return pbkdf2.Key(input, salt, k.params.Iterations, credentialDomain.KeySize, sha256.New), nil
	case credentialDomain.Argon2id:
		return argon2.IDKey(
			input,
			salt,
			k.params.Argon2Time,
			k.params.Argon2MemoryMB*1024,
			k.params.Argon2Threads,
			credentialDomain.KeySize,
		), nil
	default:
		return nil, credentialDomain.ErrUnsupportedAlgorithm
	}
}

// Verify re-derives the credential key and compares it against expected in
// constant time. Any internal failure reads as a mismatch; this surface never
// explains itself.
func (k *KDFService) Verify(
	accountID credentialDomain.AccountID,
	factors credentialDomain.FactorDigestSet,
	expected []byte,
) bool {
	if len(expected) != credentialDomain.KeySize {
		return false
	}

	derived, err := k.Derive(accountID, factors)
	if err != nil {
		return false
	}
	defer securemem.Wipe(derived)

	return securemem.ConstantTimeEquals(derived, expected)
}
