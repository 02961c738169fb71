package errors

import (
	"strings"
	"unicode"
)

// MaxIDLength bounds widget and container IDs.
const MaxIDLength = 128

// ValidateID validates a widget ID. IDs name anchors in logs, DOT output
// and cache keys, so they are restricted to printable characters without
// whitespace or the DOT/anchor separators.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "widget ID cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidID, "widget ID too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "widget ID %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `."`) {
		return New(ErrCodeInvalidID, "widget ID %q cannot contain '.' or '\"'", id)
	}
	return nil
}

// ValidateSize rejects negative sizes and bounds.
func ValidateSize(id, field string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidDocument, "%s: %s cannot be negative (got %d)", id, field, v)
	}
	return nil
}

// ValidateFraction checks that a bias or percent lies in [0, 1].
func ValidateFraction(id, field string, v float64) error {
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidDocument, "%s: %s must be between 0 and 1 (got %g)", id, field, v)
	}
	return nil
}
