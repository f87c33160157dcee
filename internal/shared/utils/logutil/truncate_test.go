package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{"empty input", "", 10, ""},
		{"zero max", "", 0, "..."},
		{"negative max", "body", -1, "..."},
		{"shorter than max", "hello", 10, "hello"},
		{"equal to max", "hello", 5, "hello"},
		{"provider body cut", `{"error":"invalid_grant","error_description":"expired"}`, 21, `{"error":"invalid_gra...`},
		{"multibyte not split", "héllo", 2, "h..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateForLog(tt.input, tt.maxLen))
		})
	}
}
