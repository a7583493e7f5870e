package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISODate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "   ", expected: ""},
		{name: "serial", input: "45000", expected: "2023-03-15"},
		{name: "serial with fraction", input: "45000.5", expected: "2023-03-15"},
		{name: "serial zero", input: "0", expected: ""},
		{name: "serial negative", input: "-10", expected: ""},
		{name: "iso passthrough", input: "2025-06-01", expected: "2025-06-01"},
		{name: "iso invalid month", input: "2025-13-01", expected: ""},
		{name: "slash four digit year", input: "6/1/2025", expected: "2025-06-01"},
		{name: "slash zero padded", input: "06/01/2025", expected: "2025-06-01"},
		{name: "slash two digit year recent", input: "3/4/24", expected: "2024-03-04"},
		{name: "slash two digit year pivot", input: "3/4/51", expected: "1951-03-04"},
		{name: "slash two digit year at pivot", input: "3/4/50", expected: "2050-03-04"},
		{name: "slash impossible date", input: "13/40/2024", expected: ""},
		{name: "slash february overflow", input: "2/30/2024", expected: ""},
		{name: "fallback slash ymd", input: "2025/06/01", expected: "2025-06-01"},
		{name: "fallback month name", input: "Jun 1, 2025", expected: "2025-06-01"},
		{name: "fallback full month name", input: "June 1, 2025", expected: "2025-06-01"},
		{name: "fallback timestamp", input: "2025-06-01 00:00:00", expected: "2025-06-01"},
		{name: "garbage", input: "next tuesday", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ISODate(tt.input))
		})
	}
}

func TestISODateSerialWindow(t *testing.T) {
	t.Run("serial inside window", func(t *testing.T) {
		assert.Equal(t, "2023-03-15", ISODateSerialWindow("45000", SerialWindowLow, SerialWindowHigh))
	})

	t.Run("small number rejected", func(t *testing.T) {
		assert.Equal(t, "", ISODateSerialWindow("2100", SerialWindowLow, SerialWindowHigh))
	})

	t.Run("huge number rejected", func(t *testing.T) {
		assert.Equal(t, "", ISODateSerialWindow("99999", SerialWindowLow, SerialWindowHigh))
	})

	t.Run("non-numeric dates unaffected by window", func(t *testing.T) {
		assert.Equal(t, "2025-06-01", ISODateSerialWindow("6/1/2025", SerialWindowLow, SerialWindowHigh))
	})
}
