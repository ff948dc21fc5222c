package services

import (
	"errors"
	"unicode"
)

var ErrWeakPassword = errors.New("weak password")

// bcrypt ignores input past 72 bytes.
const maxPasswordBytes = 72

// ValidatePasswordStrength requires eight or more characters mixing upper
// case, lower case and digits.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < 8 || len(password) > maxPasswordBytes {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
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
