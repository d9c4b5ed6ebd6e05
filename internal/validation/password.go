// Package validation holds input validation for credentials and friend codes.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	passwordMinLen = 12
	passwordMaxLen = 128
	usernameMinLen = 3
	usernameMaxLen = 30
)

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidatePassword enforces the account password policy: length bounds plus
// at least one uppercase letter, lowercase letter, digit, and special
// character.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen {
		return fmt.Errorf("password must be at least %d characters long", passwordMinLen)
	}
	if len(password) > passwordMaxLen {
		return fmt.Errorf("password must not exceed %d characters", passwordMaxLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fmt.Errorf("password must contain at least one uppercase letter")
	case !hasLower:
		return fmt.Errorf("password must contain at least one lowercase letter")
	case !hasDigit:
		return fmt.Errorf("password must contain at least one digit")
	case !hasSpecial:
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}
	return nil
}

// ValidateUsername enforces the username policy: 3-30 characters from
// [a-zA-Z0-9_-], not starting or ending with an underscore or hyphen.
func ValidateUsername(username string) error {
	if len(username) < usernameMinLen {
		return fmt.Errorf("username must be at least %d characters long", usernameMinLen)
	}
	if len(username) > usernameMaxLen {
		return fmt.Errorf("username must not exceed %d characters", usernameMaxLen)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}
	switch username[0] {
	case '_', '-':
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	switch username[len(username)-1] {
	case '_', '-':
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}
	return nil
}
