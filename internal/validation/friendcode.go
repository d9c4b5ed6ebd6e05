package validation

import (
	"fmt"
	"regexp"
)

var friendCodeRegex = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

// ValidateFriendCode checks the XXXX-XXXX-XXXX friend code format.
func ValidateFriendCode(code string) error {
	if !friendCodeRegex.MatchString(code) {
		return fmt.Errorf("friend code must look like XXXX-XXXX-XXXX (uppercase letters and digits)")
	}
	return nil
}
