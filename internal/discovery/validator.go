package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SourceValidator decides whether a file is a test executable worth running
type SourceValidator struct {
	filter *regexp.Regexp
	err    error
}

// NewSourceValidator creates a validator for a filename pattern.
// An invalid pattern rejects every source.
func NewSourceValidator(pattern string) *SourceValidator {
	filter, err := regexp.Compile(pattern)
	return &SourceValidator{filter: filter, err: err}
}

// Check reports whether source exists and its name without extension matches the pattern
func (v *SourceValidator) Check(source string, log *Log) bool {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	log.Debug(fmt.Sprintf("CheckSource name: %s\n", name))

	if v.err != nil {
		log.Debug(fmt.Sprintf("CheckSource Exception: %v\n", v.err))
		return false
	}

	return v.filter.MatchString(name) && fileExists(source)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
