// Package validation checks client-supplied strings before they reach storage.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"nareo/internal/models"
)

// MaxIdentifierLength bounds user-chosen item, course and chapter identifiers
const MaxIdentifierLength = 128

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.ValidationError{Field: "email", Err: errors.New("email is required")}
	}
	if !emailRegex.MatchString(email) {
		return models.ValidationError{Field: "email", Err: errors.New("invalid email format")}
	}
	return nil
}

// ValidateTimezone accepts IANA zone names only. "Local" is rejected since
// it names the server's zone, not the learner's.
func ValidateTimezone(tz string) error {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "local") {
		return models.ValidationError{Field: "timezone", Err: fmt.Errorf("%w: %q", models.ErrInvalidTimezone, tz)}
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return models.ValidationError{Field: "timezone", Err: fmt.Errorf("%w: %q", models.ErrInvalidTimezone, tz)}
	}
	return nil
}

// ValidateIdentifier checks an opaque identifier. Empty values are allowed
// unless required is set.
func ValidateIdentifier(field, value string, required bool) error {
	if value == "" {
		if required {
			return models.ValidationError{Field: field, Err: errors.New("is required")}
		}
		return nil
	}
	if len(value) > MaxIdentifierLength {
		return models.ValidationError{Field: field, Err: fmt.Errorf("must be at most %d bytes", MaxIdentifierLength)}
	}
	for _, r := range value {
		if unicode.IsControl(r) || r == '/' {
			return models.ValidationError{Field: field, Err: errors.New("contains a forbidden character")}
		}
	}
	return nil
}
