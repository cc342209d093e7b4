package validation

import "regexp"

const (
	minUsernameLength = 3
	maxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername returns the list of violated username rules, empty when valid.
func ValidateUsername(username string) []string {
	var violations []string

	if username == "" {
		return append(violations, "username is required")
	}

	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		violations = append(violations, "username must be between 3 and 20 characters")
	}

	if !usernamePattern.MatchString(username) {
		violations = append(violations, "username may only contain letters, numbers and underscores")
	}

	return violations
}
