package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// PasswordMinLen is the backend's minimum password length, enforced
// locally to save a round trip
const PasswordMinLen = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CheckEmail reports why an address would be rejected by the backend,
// or nil when it is worth sending
func CheckEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > 254 {
		return errors.New("email is too long")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("email format is invalid")
	}
	return nil
}

// CheckPassword validates the backend's password policy: at least
// PasswordMinLen characters with an uppercase letter, a lowercase letter,
// and a digit. The returned error names the first unmet rule.
func CheckPassword(password string) error {
	if len(password) < PasswordMinLen {
		return errors.New("password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return errors.New("password must contain an uppercase letter")
	case !hasLower:
		return errors.New("password must contain a lowercase letter")
	case !hasDigit:
		return errors.New("password must contain a number")
	}
	return nil
}

// SanitizeEmail normalizes an email address for the wire
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
