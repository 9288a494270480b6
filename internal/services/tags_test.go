package services

import (
	"strings"
	"testing"

	"github.com/photogallery/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "trims and lowercases",
			input:    []string{"  Beach ", "VACATION"},
			expected: []string{"beach", "vacation"},
		},
		{
			name:     "drops empty entries",
			input:    []string{"", "  ", "sunset"},
			expected: []string{"sunset"},
		},
		{
			name:     "deduplicates preserving first-seen order",
			input:    []string{"beach", "Sunset", "BEACH", "sunset"},
			expected: []string{"beach", "sunset"},
		},
		{
			name:     "empty input",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "nil input",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeTags(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestNormalizeTags_Idempotent(t *testing.T) {
	input := []string{" Beach ", "VACATION", "beach", ""}

	once := NormalizeTags(input)
	twice := NormalizeTags(once)

	assert.Equal(t, once, twice)
}

func TestParseTagString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "comma separated with spaces",
			input:    "Beach, Vacation",
			expected: []string{"beach", "vacation"},
		},
		{
			name:     "single tag",
			input:    "sunset",
			expected: []string{"sunset"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "only commas and spaces",
			input:    " , , ",
			expected: []string{},
		},
		{
			name:     "duplicates collapse",
			input:    "beach,BEACH, beach ",
			expected: []string{"beach"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseTagString(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name          string
		input         []string
		expectedError bool
	}{
		{
			name:          "valid tags",
			input:         []string{"beach", "vacation"},
			expectedError: false,
		},
		{
			name:          "tag at the length ceiling",
			input:         []string{strings.Repeat("a", 50)},
			expectedError: false,
		},
		{
			name:          "tag over the length ceiling",
			input:         []string{strings.Repeat("a", 51)},
			expectedError: true,
		},
		{
			name:          "empty slice",
			input:         []string{},
			expectedError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.input)
			if tt.expectedError {
				assert.ErrorIs(t, err, models.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
