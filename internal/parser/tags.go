package parser

import "regexp"

var (
	rgxTag       = regexp.MustCompile(`\[([^\[\]]+)\]`)
	rgxHiddenTag = regexp.MustCompile(`^\.|^!hide$`)
)

// ExtractTags splits a tag string like "[fast][db]" into its tags, brackets removed.
// Malformed input yields whatever complete tags it contains.
func ExtractTags(tagstr string) []string {
	tags := []string{}
	for _, match := range rgxTag.FindAllStringSubmatch(tagstr, -1) {
		tags = append(tags, match[1])
	}
	return tags
}

// IsHiddenTag reports whether a tag marks its test case as hidden
func IsHiddenTag(tag string) bool {
	return rgxHiddenTag.MatchString(tag)
}
