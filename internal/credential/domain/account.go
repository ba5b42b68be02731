package domain

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/credvault/internal/errors"
	appValidation "github.com/allisson/credvault/internal/validation"
)

// AccountID identifies the account a credential belongs to. The canonical
// form is the lowercase hyphenated UUID version 4 string; parsing normalizes
// equivalent spellings so the same account always derives the same salt and
// binds the same context value.
type AccountID string

// ParseAccountID validates s as a UUID version 4 account identifier and
// returns it in canonical form.
func ParseAccountID(s string) (AccountID, error) {
	err := validation.Validate(s,
		validation.Required.Error("account id is required"),
		appValidation.UUIDv4,
	)
	if err != nil {
		return "", apperrors.Wrap(ErrInvalidAccountID, err.Error())
	}
	return AccountID(uuid.MustParse(s).String()), nil
}

// String returns the canonical account identifier.
func (a AccountID) String() string {
	return string(a)
}
