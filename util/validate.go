package util

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidateUUID parses value as a UUID, naming field in any error. Run
// identifiers are UUIDs, so components that accept one from outside use this
// to reject malformed input before it reaches logs and summaries.
func ValidateUUID(field, value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, fmt.Errorf("%s cannot be empty", field)
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: invalid UUID format: %w", field, err)
	}
	return id, nil
}

// ValidateNonEmpty rejects values that are empty after trimming whitespace,
// naming field in the error.
func ValidateNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	return nil
}
