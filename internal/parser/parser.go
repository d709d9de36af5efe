package parser

import (
	"errors"

	"tdisc/internal/domain"
)

var (
	// ErrUnrecognizedListing is returned when text output does not start with a known banner
	ErrUnrecognizedListing = errors.New("unrecognized test listing")
	// ErrMalformedXML is returned when XML output cannot be parsed
	ErrMalformedXML = errors.New("malformed xml report")
	// ErrMissingGroup is returned when an XML report has no Group element
	ErrMissingGroup = errors.New("xml report has no Group element")
)

// Parser parses discovery output of a test executable into test cases.
// Returned cases are candidates: hidden cases are not filtered out.
type Parser interface {
	Parse(output, source string) ([]domain.TestCase, error)
}
