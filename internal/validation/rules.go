// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/credvault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// UUIDv4 validates that a string parses as a UUID with version 4.
var UUIDv4 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	id, err := uuid.Parse(s)
	if err != nil || id.Version() != 4 {
		return validation.NewError("validation_uuid_v4", "must be a valid UUID version 4")
	}
	return nil
})

// HexOfLength returns a rule validating that a string is hex-encoded data of
// exactly byteLen bytes. Case-insensitive, as decoding is.
func HexOfLength(byteLen int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_hex_type", "must be a string")
		}
		if s == "" {
			return nil // Let Required handle empty strings
		}
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return validation.NewError("validation_hex", "must be valid hex-encoded data")
		}
		if len(decoded) != byteLen {
			return validation.NewError(
				"validation_hex_length",
				fmt.Sprintf("must encode exactly %d bytes", byteLen),
			)
		}
		return nil
	})
}

// PrintableASCII validates that a string contains only printable ASCII characters.
var PrintableASCII = validation.NewStringRuleWithError(
	func(s string) bool {
		for _, r := range s {
			if r < 0x20 || r > 0x7e {
				return false
			}
		}
		return true
	},
	validation.NewError("validation_printable_ascii", "must contain only printable ASCII characters"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string contains non-whitespace content.
// Empty strings are deferred to Required.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
