package validation

import (
	"fmt"
	"unicode"
)

// ValidateTitle rejects titles carrying control characters or no visible text.
func ValidateTitle(title string) error {
	hasVisible := false
	for _, r := range title {
		if unicode.IsControl(r) {
			return fmt.Errorf("title must not contain control characters")
		}
		if !unicode.IsSpace(r) {
			hasVisible = true
		}
	}
	if !hasVisible {
		return fmt.Errorf("title must contain visible characters")
	}

	return nil
}
