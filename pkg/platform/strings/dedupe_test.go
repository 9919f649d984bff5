package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
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
			name:     "trims whitespace",
			input:    []string{"  a@x.com  ", "123  "},
			expected: []string{"a@x.com", "123"},
		},
		{
			name:     "removes duplicates preserving first-seen order",
			input:    []string{"123", "456", "123", "789", "456"},
			expected: []string{"123", "456", "789"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"a@x.com", "", "  ", "b@x.com"},
			expected: []string{"a@x.com", "b@x.com"},
		},
		{
			name:     "preserves case",
			input:    []string{"A@x.com", "a@x.com"},
			expected: []string{"A@x.com", "a@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
