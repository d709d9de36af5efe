package domain

// DiscoveryMeta contains metadata about a discovery run
type DiscoveryMeta struct {
	RunID           string  `json:"run_id" yaml:"run_id"`
	Sources         int     `json:"sources" yaml:"sources"`
	ValidSources    int     `json:"valid_sources" yaml:"valid_sources"`
	TestCases       int     `json:"test_cases" yaml:"test_cases"`
	Duration        string  `json:"duration" yaml:"duration"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
	Timestamp       string  `json:"timestamp" yaml:"timestamp"`
}

// DiscoveryReport is the exported result of a discovery run
type DiscoveryReport struct {
	Meta  DiscoveryMeta `json:"meta" yaml:"meta"`
	Tests []TestCase    `json:"tests" yaml:"tests"`
	Log   string        `json:"log,omitempty" yaml:"log,omitempty"`
}

// BySource groups test cases by their source executable, keeping first-seen source order
func (r *DiscoveryReport) BySource() ([]string, map[string][]TestCase) {
	var order []string
	groups := make(map[string][]TestCase)
	for _, tc := range r.Tests {
		if _, ok := groups[tc.Source]; !ok {
			order = append(order, tc.Source)
		}
		groups[tc.Source] = append(groups[tc.Source], tc)
	}
	return order, groups
}
