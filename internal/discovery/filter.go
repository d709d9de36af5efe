package discovery

import (
	"path/filepath"
	"strings"

	"tdisc/internal/domain"
)

// Filter filters discovered test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters test cases by name pattern using wildcard matching
// Supports patterns like "Vector*" or "*resize*"
func (f *Filter) FilterByName(tests []domain.TestCase, pattern string) []domain.TestCase {
	if pattern == "" {
		return tests
	}

	var filtered []domain.TestCase

	for _, test := range tests {
		if matchName(test.Name, pattern) {
			filtered = append(filtered, test)
		}
	}

	return filtered
}

func matchName(name, pattern string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// Every non-empty part between wildcards has to occur in the name
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
