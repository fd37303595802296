package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUTCTimeLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"millisecond zulu", "2025-03-01T14:00:00.000Z"},
		{"second zulu", "2025-03-01T14:00:00Z"},
		{"no zone", "2025-03-01T14:00:00"},
		{"space separated", "2025-03-01 14:00:00"},
	}

	expected := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseUTCTime(tt.input)
			require.NotNil(t, parsed)
			assert.Equal(t, expected, *parsed)
		})
	}
}

func TestParseUTCTimeInvalid(t *testing.T) {
	assert.Nil(t, ParseUTCTime(""))
	assert.Nil(t, ParseUTCTime("   "))
	assert.Nil(t, ParseUTCTime("not-a-date"))
	assert.Nil(t, ParseUTCTime("03/01/2025"))
}

func TestFormatAPITime(t *testing.T) {
	at := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01T14:00:00.000Z", FormatAPITime(at))
}

func TestCleanString(t *testing.T) {
	assert.Nil(t, CleanString(""))
	assert.Nil(t, CleanString("   "))

	cleaned := CleanString("  N425FX ")
	require.NotNil(t, cleaned)
	assert.Equal(t, "N425FX", *cleaned)
}

func TestSafeInt(t *testing.T) {
	assert.Nil(t, SafeInt(""))
	assert.Nil(t, SafeInt("abc"))
	assert.Nil(t, SafeInt("12.5"))

	n := SafeInt(" 4021 ")
	require.NotNil(t, n)
	assert.Equal(t, 4021, *n)
}

func TestSafeFloat(t *testing.T) {
	assert.Nil(t, SafeFloat(""))
	assert.Nil(t, SafeFloat("abc"))

	f := SafeFloat("138.5")
	require.NotNil(t, f)
	assert.Equal(t, 138.5, *f)
}

func TestLoadWindowRangeFor(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	window := LoadWindow{DaysPast: 3, DaysFuture: 10}

	dates := window.RangeFor(now)
	assert.Equal(t, time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC), dates.Start)
	assert.Equal(t, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), dates.End)
}
