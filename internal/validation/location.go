package validation

const maxLocationLength = 100

// ValidateLocation returns the list of violated location rules, empty when
// valid. Location is optional free text.
func ValidateLocation(location string) []string {
	if len(location) > maxLocationLength {
		return []string{"location must not exceed 100 characters"}
	}

	return nil
}
