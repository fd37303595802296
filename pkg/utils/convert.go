package utils

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted from the scheduling provider. Tried in order.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// APITimeLayout is the millisecond ISO format the provider expects in
// query parameters.
const APITimeLayout = "2006-01-02T15:04:05.000Z"

// FormatAPITime renders a timestamp in the provider's query format.
func FormatAPITime(t time.Time) string {
	return t.UTC().Format(APITimeLayout)
}

// ParseUTCTime parses a provider timestamp. Returns nil on empty input or
// any parse failure; conversion never fails hard.
func ParseUTCTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// CleanString trims a string and maps empty results to nil.
func CleanString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SafeInt converts a string to *int, nil on empty or unparseable input.
func SafeInt(value string) *int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}

// SafeFloat converts a string to *float64, nil on empty or unparseable
// input.
func SafeFloat(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &f
}
