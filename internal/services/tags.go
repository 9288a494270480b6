package services

import (
	"fmt"
	"strings"

	"github.com/photogallery/backend/internal/models"
)

const maxTagLength = 50

// NormalizeTags trims, lowercases, drops empties and deduplicates tags while
// preserving first-seen order. The result is a fixed point: normalizing twice
// yields the same slice.
func NormalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		normalized = append(normalized, tag)
	}
	return normalized
}

// ParseTagString splits a comma-separated tag string and normalizes the result
func ParseTagString(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, ","))
}

// ValidateTags rejects tags that survive normalization but exceed the length
// ceiling
func ValidateTags(tags []string) error {
	for _, tag := range tags {
		if len(tag) > maxTagLength {
			return fmt.Errorf("%w: tag %q exceeds %d characters", models.ErrValidation, tag, maxTagLength)
		}
	}
	return nil
}
