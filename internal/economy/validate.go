package economy

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

// normalizeID trims and validates a UUID-shaped identifier.
func normalizeID(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidf("%s is required", field)
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return "", invalidf("%s must be a UUID", field)
	}
	return parsed.String(), nil
}

func normalizeOptionalID(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return normalizeID(field, value)
}

func normalizeItemID(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalidf("itemId is required")
	}
	return value, nil
}
