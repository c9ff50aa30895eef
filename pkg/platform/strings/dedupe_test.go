package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrimLower(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "lowercases and trims",
			input:    []string{"  Jane@Acme.COM  ", "bob@other.com"},
			expected: []string{"jane@acme.com", "bob@other.com"},
		},
		{
			name:     "removes case-insensitive duplicates preserving order",
			input:    []string{"jane@acme.com", "JANE@ACME.COM", "bob@other.com", "jane@acme.com"},
			expected: []string{"jane@acme.com", "bob@other.com"},
		},
		{
			name:     "drops empty and whitespace-only elements",
			input:    []string{"", "  ", "jane@acme.com"},
			expected: []string{"jane@acme.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrimLower(tt.input))
		})
	}
}
