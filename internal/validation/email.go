// Package validation contains the field-level input rules for the auth flows.
// Validators return every violated rule so the API can report them together
// in a single response.
package validation

import "regexp"

const maxEmailLength = 255

// emailPattern is deliberately RFC-light: one local part, one domain with at
// least one dot, no whitespace. Deliverability is proven by the verification
// email, not by the parser.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail returns the list of violated email rules, empty when valid.
func ValidateEmail(email string) []string {
	var violations []string

	if email == "" {
		return append(violations, "email is required")
	}

	if len(email) > maxEmailLength {
		violations = append(violations, "email must not exceed 255 characters")
	}

	if !emailPattern.MatchString(email) {
		violations = append(violations, "email format is invalid")
	}

	return violations
}
