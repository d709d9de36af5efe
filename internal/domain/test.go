package domain

// TestCase represents a single test case reported by a test executable
type TestCase struct {
	Name     string   `json:"name" yaml:"name"`                             // Fully reconstructed test name
	Source   string   `json:"source" yaml:"source"`                         // Executable that reported the case
	Filename string   `json:"filename,omitempty" yaml:"filename,omitempty"` // Source file, XML discovery only
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`         // Source line, XML discovery only
	Tags     []string `json:"tags" yaml:"tags"`                             // Tags without brackets, in order of appearance
}

// HasLocation reports whether the case carries source file information
func (tc TestCase) HasLocation() bool {
	return tc.Filename != ""
}
