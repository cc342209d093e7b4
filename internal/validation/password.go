package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// passwordSymbols is the punctuation set that satisfies the symbol rule.
const passwordSymbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// PasswordPolicy holds the configurable strength requirements.
// The zero value is not useful; construct with DefaultPasswordPolicy and
// override from configuration.
type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumbers   bool
	RequireSpecial   bool
}

// DefaultPasswordPolicy returns the marketplace defaults: 8-72 characters
// with all four character classes required. The 72 ceiling matches bcrypt's
// input limit, which silently truncates longer passwords.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		MaxLength:        72,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	}
}

// Validate returns every strength rule the password violates, empty when valid.
func (p PasswordPolicy) Validate(password string) []string {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations, fmt.Sprintf("password must be at least %d characters", p.MinLength))
	}
	if len(password) > p.MaxLength {
		violations = append(violations, fmt.Sprintf("password must not exceed %d characters", p.MaxLength))
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSpecial = true
		}
	}

	if p.RequireUppercase && !hasUpper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if p.RequireLowercase && !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if p.RequireNumbers && !hasNumber {
		violations = append(violations, "password must contain a number")
	}
	if p.RequireSpecial && !hasSpecial {
		violations = append(violations, "password must contain a special character")
	}

	return violations
}
