package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"tdisc/internal/discovery"
	"tdisc/internal/domain"
)

// Formatter formats and displays discovery output
type Formatter struct {
	out     io.Writer
	baseDir string
}

// NewFormatter creates a Formatter writing to out. Source paths are shown
// relative to baseDir when possible.
func NewFormatter(out io.Writer, baseDir string) *Formatter {
	if out == nil {
		out = os.Stdout
	}
	return &Formatter{out: out, baseDir: baseDir}
}

func (f *Formatter) relPath(path string) string {
	if f.baseDir == "" {
		return path
	}
	rel, err := filepath.Rel(f.baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// PrintTestList prints the discovered test cases as a tree grouped by source.
// showDetails adds tags and file locations below each case.
func (f *Formatter) PrintTestList(tests []domain.TestCase, showDetails bool) {
	report := domain.DiscoveryReport{Tests: tests}
	sources, groups := report.BySource()

	color.New(color.FgGreen).Fprintf(f.out, "Found %d test case(s) in %d source(s):\n\n", len(tests), len(sources))

	for i, source := range sources {
		isLastSource := i == len(sources)-1
		branch, indent := "├── ", "│   "
		if isLastSource {
			branch, indent = "└── ", "    "
		}
		color.New(color.FgCyan).Fprintf(f.out, "%s%s\n", branch, f.relPath(source))

		cases := groups[source]
		for j, tc := range cases {
			isLastCase := j == len(cases)-1
			caseBranch, caseIndent := "├── ", "│   "
			if isLastCase {
				caseBranch, caseIndent = "└── ", "    "
			}
			fmt.Fprintf(f.out, "%s%s%s\n", indent, caseBranch, color.YellowString(tc.Name))

			if !showDetails {
				continue
			}
			if len(tc.Tags) > 0 {
				fmt.Fprintf(f.out, "%s%s    %s\n", indent, caseIndent, color.MagentaString(formatTags(tc.Tags)))
			}
			if tc.HasLocation() {
				fmt.Fprintf(f.out, "%s%s    %s\n", indent, caseIndent, color.HiBlackString(formatLocation(tc)))
			}
		}
	}
}

// PrintNames prints one test name per line, for piping into other tools
func (f *Formatter) PrintNames(tests []domain.TestCase) {
	for _, tc := range tests {
		fmt.Fprintln(f.out, tc.Name)
	}
}

// PrintSummary prints the statistics of a discovery run as a table
func (f *Formatter) PrintSummary(meta domain.DiscoveryMeta, results []discovery.SourceResult) {
	row := func(label string, value string, c *color.Color) {
		fmt.Fprintf(f.out, "│ %-27s │ ", label)
		c.Fprintf(f.out, "%-36s", value)
		fmt.Fprintln(f.out, " │")
	}
	sep := "├─────────────────────────────┼──────────────────────────────────────┤"
	white := color.New(color.FgWhite)

	fmt.Fprintln(f.out)
	color.New(color.FgCyan).Fprintln(f.out, "Discovery Statistics")
	fmt.Fprintln(f.out, "┌─────────────────────────────┬──────────────────────────────────────┐")
	row("Sources", fmt.Sprint(meta.Sources), white)
	fmt.Fprintln(f.out, sep)
	row("Valid Sources", fmt.Sprint(meta.ValidSources), color.New(color.FgGreen))
	fmt.Fprintln(f.out, sep)
	row("Test Cases", fmt.Sprint(meta.TestCases), color.New(color.FgYellow))
	fmt.Fprintln(f.out, sep)
	row("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white)
	fmt.Fprintln(f.out, sep)
	row("Run ID", meta.RunID, white)
	fmt.Fprintln(f.out, "└─────────────────────────────┴──────────────────────────────────────┘")

	var failed []discovery.SourceResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}
	fmt.Fprintln(f.out)
	color.New(color.FgRed).Fprintf(f.out, "✗ %d source(s) produced no tests:\n", len(failed))
	for _, r := range failed {
		fmt.Fprintf(f.out, "  %s [%s]: %s\n", f.relPath(r.Source), r.Status(), color.RedString(r.Err.Error()))
	}
}

// PrintLog prints the discovery log, if any
func (f *Formatter) PrintLog(log string) {
	if log == "" {
		return
	}
	fmt.Fprintln(f.out)
	color.New(color.FgCyan).Fprintln(f.out, "Discovery Log")
	fmt.Fprint(f.out, log)
	if !strings.HasSuffix(log, "\n") {
		fmt.Fprintln(f.out)
	}
}

func formatTags(tags []string) string {
	var b strings.Builder
	for _, tag := range tags {
		b.WriteString("[" + tag + "]")
	}
	return b.String()
}

func formatLocation(tc domain.TestCase) string {
	if tc.Line > 0 {
		return fmt.Sprintf("%s:%d", tc.Filename, tc.Line)
	}
	return tc.Filename
}
