// utils/validation.go
package utils

import "regexp"

// Simple shape check: local-part, "@", domain with a dot. Not full RFC
// validation.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks if an email address is syntactically plausible
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}
