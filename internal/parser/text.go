package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"tdisc/internal/domain"
)

// Column widths at which the listing tool wraps long lines. A fragment of
// exactly this length ending in '-' was split inside a word and loses the '-'.
const (
	nameWrapWidth         = 77
	continuationWrapWidth = 75
	tagWrapWidth          = 73
)

const (
	caseIndent         = "  "
	continuationIndent = "    "
	tagIndent          = "      "
)

var rgxTagGroup = regexp.MustCompile(`^(\[[^\[\]]+\])+$`)

var listingBanners = []string{
	"All available test cases:",
	"Matching test cases:",
}

type scanState int

const (
	awaitingBanner scanState = iota
	awaitingCase
	inContinuation
	inTags
)

// TextParser parses the plain text test listing
type TextParser struct {
	// NamesOnly treats every line as a test name, as printed by --list-test-names-only
	NamesOnly bool
}

// NewTextParser creates a new TextParser
func NewTextParser(namesOnly bool) *TextParser {
	return &TextParser{NamesOnly: namesOnly}
}

// Parse extracts test cases from listing output
func (p *TextParser) Parse(output, source string) ([]domain.TestCase, error) {
	lines := splitLines(output)
	if p.NamesOnly {
		return parseNames(lines, source), nil
	}
	return parseListing(lines, source)
}

func parseNames(lines []string, source string) []domain.TestCase {
	var tests []domain.TestCase
	for _, line := range lines {
		if line == "" {
			continue
		}
		tests = append(tests, domain.TestCase{Name: line, Source: source, Tags: []string{}})
	}
	return tests
}

// listingScanner reassembles test names and tags that the listing tool wrapped
// over several lines.
type listingScanner struct {
	source string
	state  scanState
	tests  []domain.TestCase

	name       string
	pending    string
	hasPending bool
	tagstr     string
}

func parseListing(lines []string, source string) ([]domain.TestCase, error) {
	s := &listingScanner{source: source, state: awaitingBanner}

	for i := 0; i < len(lines); {
		line := lines[i]
		switch s.state {
		case awaitingBanner:
			if !hasBanner(line) {
				return nil, ErrUnrecognizedListing
			}
			s.state = awaitingCase
			i++

		case awaitingCase:
			if content, ok := indented(line, caseIndent); ok {
				s.name = content
				s.pending = ""
				s.hasPending = false
				s.state = inContinuation
			}
			i++

		case inContinuation:
			content, ok := indented(line, continuationIndent)
			if !ok {
				s.finishName()
				continue
			}
			if isTagGroup(content) && !hasTagLine(lines, i+1) {
				// Tags printed at continuation depth by older listings
				s.finishName()
				s.tagstr += content
				i++
				continue
			}
			if !s.hasPending {
				s.name = joinFragment(s.name, nameWrapWidth)
			} else {
				s.name += joinFragment(s.pending, continuationWrapWidth)
			}
			s.pending = content
			s.hasPending = true
			i++

		case inTags:
			content, ok := indented(line, tagIndent)
			if !ok {
				s.emit()
				continue
			}
			s.tagstr += joinTagFragment(content)
			i++
		}
	}

	switch s.state {
	case awaitingBanner:
		return nil, ErrUnrecognizedListing
	case inContinuation:
		s.finishName()
		s.emit()
	case inTags:
		s.emit()
	}

	return s.tests, nil
}

func (s *listingScanner) finishName() {
	if s.hasPending {
		s.name += s.pending
	}
	s.tagstr = ""
	s.state = inTags
}

func (s *listingScanner) emit() {
	s.tests = append(s.tests, domain.TestCase{
		Name:   s.name,
		Source: s.source,
		Tags:   ExtractTags(s.tagstr),
	})
	s.state = awaitingCase
}

// joinFragment prepares a wrapped fragment for the next one to be appended.
// A '-' at the wrap width is a word split and is dropped; any other trailing '-'
// is kept and glued to the next fragment; otherwise the break was a space.
func joinFragment(fragment string, width int) string {
	if strings.HasSuffix(fragment, "-") {
		if utf8.RuneCountInString(fragment) == width {
			return dropLast(fragment)
		}
		return fragment
	}
	return fragment + " "
}

// joinTagFragment is joinFragment for tag lines, where a closing ']' ends a tag
// group and needs no separator.
func joinTagFragment(fragment string) string {
	if strings.HasSuffix(fragment, "]") {
		return fragment
	}
	return joinFragment(fragment, tagWrapWidth)
}

func isTagGroup(content string) bool {
	return rgxTagGroup.MatchString(content)
}

// hasTagLine reports whether lines[i] exists and is at tag depth
func hasTagLine(lines []string, i int) bool {
	if i >= len(lines) {
		return false
	}
	_, ok := indented(lines[i], tagIndent)
	return ok
}

func hasBanner(line string) bool {
	for _, banner := range listingBanners {
		if strings.HasPrefix(line, banner) {
			return true
		}
	}
	return false
}

// indented returns the text after indent when line starts with exactly that
// many spaces followed by a non-space character.
func indented(line, indent string) (string, bool) {
	if len(line) <= len(indent) || !strings.HasPrefix(line, indent) || line[len(indent)] == ' ' {
		return "", false
	}
	return line[len(indent):], true
}

func dropLast(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// splitLines splits output on "\n", "\r\n" or "\r". A trailing line break does
// not start another line.
func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	output = strings.ReplaceAll(output, "\r\n", "\n")
	output = strings.ReplaceAll(output, "\r", "\n")
	output = strings.TrimSuffix(output, "\n")
	return strings.Split(output, "\n")
}
