// Package utils holds input validation shared by the account and storage
// providers.
package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxEmailLength    = 255
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateString checks length bounds (in runes) and rejects null bytes.
// Optional fields pass when empty.
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}

	n := utf8.RuneCountInString(value)
	if n < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if n > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateUsername enforces the account username rules
func ValidateUsername(username string) error {
	if err := ValidateString(username, "username", MinUsernameLength, MaxUsernameLength, true); err != nil {
		return err
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username contains invalid characters (only alphanumeric and underscores allowed)")
	}
	return nil
}

// ValidatePassword enforces password length bounds
func ValidatePassword(password string) error {
	return ValidateString(password, "password", MinPasswordLength, MaxPasswordLength, true)
}

// ValidateEmail checks basic email shape. Empty is fine unless required.
func ValidateEmail(email string, required bool) error {
	if err := ValidateString(email, "email", 0, MaxEmailLength, required); err != nil {
		return err
	}
	if email != "" && !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
