package stream

import (
	"errors"
	"fmt"
)

const (
	MinAccountIDLength = 2
	MaxAccountIDLength = 64
)

// ErrInvalidAccountID is returned for identifiers which break the account naming rules.
var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID is a human readable account name, e.g. "alice.near".
type AccountID string

func (a AccountID) String() string {
	return string(a)
}

// ParseAccountID validates s and returns it as an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	if err := ValidateAccountID(s); err != nil {
		return "", err
	}
	return AccountID(s), nil
}

// ValidateAccountID checks the account naming rules:
//   - the length is between MinAccountIDLength and MaxAccountIDLength
//   - only lowercase letters, digits and the separators '-', '_' and '.' are used
//   - a separator neither starts nor ends the id, and two separators are never adjacent
//
// All returned errors wrap ErrInvalidAccountID.
func ValidateAccountID(s string) error {
	if len(s) < MinAccountIDLength {
		return fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidAccountID, s, MinAccountIDLength)
	}
	if len(s) > MaxAccountIDLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidAccountID, s, MaxAccountIDLength)
	}

	lastWasSeparator := true // disallows a leading separator
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastWasSeparator = false
		case c == '-' || c == '_' || c == '.':
			if lastWasSeparator {
				return fmt.Errorf("%w: %q has a misplaced separator at position %d", ErrInvalidAccountID, s, i)
			}
			lastWasSeparator = true
		default:
			return fmt.Errorf("%w: %q contains invalid character %q at position %d", ErrInvalidAccountID, s, c, i)
		}
	}
	if lastWasSeparator {
		return fmt.Errorf("%w: %q ends with a separator", ErrInvalidAccountID, s)
	}

	return nil
}
