package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode"
)

var (
	ErrCredentialsInvalid = errors.New("credentials invalid")
	ErrWeakPassword       = errors.New("weak password")
)

const maxDisplayNameLength = 60

// NormalizeEmail lowercases and validates an email address. Empty string
// means the input was not a usable address.
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentials(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrCredentialsInvalid
	}
	return email, password, nil
}

// ValidatePasswordStrength requires at least 8 runes with an upper, a lower
// and a digit.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 {
		return ErrWeakPassword
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasUpper && hasLower && hasDigit {
		return nil
	}
	return ErrWeakPassword
}
