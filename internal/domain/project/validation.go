package project

import (
	"fmt"
	"unicode"

	"github.com/Strob0t/SecTrack/internal/domain"
)

// ValidateName validates a project name: non-empty, max 255 chars, no
// control characters. Callers are expected to trim whitespace first.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if len(name) > 255 {
		return fmt.Errorf("name exceeds 255 characters: %w", domain.ErrValidation)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("name contains control characters: %w", domain.ErrValidation)
		}
	}
	return nil
}
