package domain

import (
	"encoding/binary"
	"maps"
	"slices"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/credvault/internal/errors"
	appValidation "github.com/allisson/credvault/internal/validation"
)

// EncryptionContext carries non-secret key/value pairs that are bound to a
// wrapped key as additional authenticated data. Unwrapping requires the
// byte-identical context; any drift in any pair fails authentication.
type EncryptionContext map[string]string

// Validate checks context keys and values against size and character bounds.
// Values may be empty; neither keys nor values may contain NUL bytes.
func (e EncryptionContext) Validate() error {
	for key, value := range e {
		err := validation.Validate(key,
			validation.Required.Error("context key is required"),
			validation.RuneLength(1, MaxContextKeyLength).Error("context key is too long"),
			appValidation.PrintableASCII,
		)
		if err != nil {
			return apperrors.Wrap(ErrInvalidContext, err.Error())
		}

		if len(value) > MaxContextValueLength {
			return apperrors.Wrapf(ErrInvalidContext, "context value for %q is too long", key)
		}
		if strings.IndexByte(value, 0) >= 0 {
			return apperrors.Wrapf(ErrInvalidContext, "context value for %q contains NUL", key)
		}
	}
	return nil
}

// Clone returns a copy of the context. A nil receiver clones to an empty,
// usable map.
func (e EncryptionContext) Clone() EncryptionContext {
	cloned := make(EncryptionContext, len(e))
	maps.Copy(cloned, e)
	return cloned
}

// Merge returns a new context containing the receiver's entries plus other's.
// On key conflicts the receiver wins, so owners of reserved or identity pairs
// merge their context over caller input, never the other way around.
func (e EncryptionContext) Merge(other EncryptionContext) EncryptionContext {
	merged := make(EncryptionContext, len(e)+len(other))
	maps.Copy(merged, other)
	maps.Copy(merged, e)
	return merged
}

// Equal reports whether both contexts hold exactly the same pairs.
func (e EncryptionContext) Equal(other EncryptionContext) bool {
	return maps.Equal(e, other)
}

// Canonical converts the context to a deterministic byte representation for
// use as AAD. Keys are sorted lexicographically; each key and value is
// length-prefixed to prevent ambiguity between adjacent fields. Equal maps
// produce equal bytes regardless of insertion order.
func (e EncryptionContext) Canonical() []byte {
	// Estimate capacity to reduce allocations (typical context ~256 bytes)
	buf := make([]byte, 0, 256)

	for _, key := range slices.Sorted(maps.Keys(e)) {
		buf = appendLengthPrefixed(buf, []byte(key))
		buf = appendLengthPrefixed(buf, []byte(e[key]))
	}

	return buf
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Format: [length (4 bytes)] + [data (length bytes)]
// Panics if data length exceeds uint32 max (4GB) to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max (4GB)")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}
