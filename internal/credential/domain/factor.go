package domain

import (
	"encoding/hex"
	"maps"
	"slices"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/credvault/internal/errors"
	appValidation "github.com/allisson/credvault/internal/validation"
)

// FactorDigestSet maps factor names to hex-encoded 32-byte digests of the
// factor material (PIN, pattern, fingerprint template, and so on). Digesting
// happens on the client; raw factor secrets never reach this service.
type FactorDigestSet map[string]string

// Validate checks every factor name and digest in the set.
//
// Factor-count policy belongs to the enrollment surface; the derivation
// engine accepts any non-empty validated set.
func (f FactorDigestSet) Validate() error {
	if len(f) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "factor set must not be empty")
	}

	for name, digest := range f {
		err := validation.Validate(name,
			validation.Required.Error("factor name is required"),
			validation.RuneLength(1, MaxFactorNameLength).Error("factor name is too long"),
			appValidation.NoWhitespace,
			appValidation.PrintableASCII,
		)
		if err != nil {
			return apperrors.Wrap(ErrInvalidFactorName, err.Error())
		}

		err = validation.Validate(digest,
			validation.Required.Error("factor digest is required"),
			appValidation.HexOfLength(KeySize),
		)
		if err != nil {
			return apperrors.Wrapf(ErrInvalidFactorDigest, "factor %q: %s", name, err.Error())
		}
	}

	return nil
}

// SortedNames returns the factor names in lexicographic order. Derivation
// input is assembled in this order so map iteration never affects the result.
func (f FactorDigestSet) SortedNames() []string {
	return slices.Sorted(maps.Keys(f))
}

// DigestBytes decodes the digest registered under name.
func (f FactorDigestSet) DigestBytes(name string) ([]byte, error) {
	digest, ok := f[name]
	if !ok {
		return nil, apperrors.Wrapf(ErrInvalidFactorName, "unknown factor %q", name)
	}
	decoded, err := hex.DecodeString(digest)
	if err != nil {
		return nil, apperrors.Wrapf(ErrInvalidFactorDigest, "factor %q", name)
	}
	return decoded, nil
}
