package discovery

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tdisc/internal/config"
	"tdisc/internal/domain"
	"tdisc/internal/execution"
	"tdisc/internal/parser"
)

var (
	// ErrDiscoveryDisabled is recorded when discovery is disabled or the command line is invalid
	ErrDiscoveryDisabled = errors.New("discovery disabled or invalid discovery command line")
	// ErrMissingSource is recorded for sources that do not exist
	ErrMissingSource = errors.New("source not found")
	// ErrRejectedSource is recorded for sources the filename filter rejects
	ErrRejectedSource = errors.New("source rejected by filename filter")
	// ErrDiscoveryTimeout is recorded when an executable exceeds the discovery timeout
	ErrDiscoveryTimeout = errors.New("discovery timeout")
	// ErrDiscoveryProcess is recorded when an executable fails to run or writes to stderr
	ErrDiscoveryProcess = errors.New("discovery process error")
	// ErrEmptyOutput is recorded when an executable prints nothing
	ErrEmptyOutput = errors.New("no discovery output")
)

// SourceResult is the outcome of discovery for a single source
type SourceResult struct {
	Source string
	Count  int   // Test cases added to the result
	Err    error // nil when the output was parsed
}

// Status names the outcome: found, missing, rejected, timeout, process-error,
// empty or parse-error
func (r SourceResult) Status() string {
	switch {
	case r.Err == nil:
		return "found"
	case errors.Is(r.Err, ErrMissingSource):
		return "missing"
	case errors.Is(r.Err, ErrRejectedSource):
		return "rejected"
	case errors.Is(r.Err, ErrDiscoveryTimeout):
		return "timeout"
	case errors.Is(r.Err, ErrDiscoveryProcess):
		return "process-error"
	case errors.Is(r.Err, ErrEmptyOutput):
		return "empty"
	default:
		return "parse-error"
	}
}

// Ran reports whether the source passed validation and was executed
func (r SourceResult) Ran() bool {
	return !errors.Is(r.Err, ErrMissingSource) && !errors.Is(r.Err, ErrRejectedSource)
}

// Discoverer runs test executables and collects the test cases they list
type Discoverer struct {
	config   *config.Config
	executor execution.Executor
	xml      *parser.XMLParser
	logger   zerolog.Logger
	progress Progress

	log     *Log
	results []SourceResult
}

// NewDiscoverer creates a new Discoverer
func NewDiscoverer(cfg *config.Config, executor execution.Executor, logger zerolog.Logger) *Discoverer {
	return &Discoverer{
		config:   cfg,
		executor: executor,
		xml:      parser.NewXMLParser(),
		logger:   logger.With().Str("component", "discovery").Logger(),
		log:      NewLog(cfg.LoggingLevel),
	}
}

// SetProgress sets the progress reporter for the discoverer
func (d *Discoverer) SetProgress(progress Progress) {
	d.progress = progress
}

// Log returns the discovery log of the last run
func (d *Discoverer) Log() string {
	return d.log.String()
}

// Results returns the per-source outcome of the last run
func (d *Discoverer) Results() []SourceResult {
	return d.results
}

// GetTests discovers the test cases of every source, in order. A failing
// source never stops the others; the log of the run is returned alongside.
func (d *Discoverer) GetTests(ctx context.Context, sources []string) ([]domain.TestCase, string) {
	d.log.Reset(d.config.LoggingLevel)
	d.results = nil

	tests := []domain.TestCase{}

	// Make sure the discovery command line to be used is valid
	if d.config.Disabled || !d.config.HasValidDiscoveryCommandline() {
		d.log.Debug("Test discovery disabled or invalid discovery command line, no sources processed\n")
		d.logger.Debug().Err(ErrDiscoveryDisabled).Msg("Skipping discovery")
		return tests, d.log.String()
	}
	args, _ := d.config.DiscoverArgs()
	validator := NewSourceValidator(d.config.FilenameFilter)

	for i, source := range sources {
		d.log.Verbose(fmt.Sprintf("Source: %s\n", source))

		result := SourceResult{Source: source}
		switch {
		case !fileExists(source):
			d.log.Verbose("  File not found.\n")
			result.Err = ErrMissingSource
		case validator.Check(source, d.log):
			found, err := d.extractTestCases(ctx, source, args)
			d.log.Verbose(fmt.Sprintf("  Testcase count: %d\n", len(found)))
			tests = append(tests, found...)
			result.Count = len(found)
			result.Err = err
		default:
			d.log.Verbose("  Invalid source.\n")
			result.Err = ErrRejectedSource
		}
		d.log.Debug(fmt.Sprintf("  Accumulated Testcase count: %d\n", len(tests)))

		d.results = append(d.results, result)
		if d.progress != nil {
			d.progress.Update(i+1, len(tests))
		}
	}
	if d.progress != nil {
		d.progress.Finish()
	}

	return tests, d.log.String()
}

func (d *Discoverer) extractTestCases(ctx context.Context, source string, args []string) ([]domain.TestCase, error) {
	output, runErr := d.testCaseInfo(ctx, source, args)

	var p parser.Parser
	if d.config.UseXMLDiscovery() {
		d.log.Debug("  XML Discovery:\n" + output)
		p = d.xml
	} else {
		d.log.Debug("  Default Discovery:\n" + output)
		p = parser.NewTextParser(d.config.UsesTestNameOnlyDiscovery())
	}
	if runErr != nil {
		return nil, runErr
	}

	candidates, err := p.Parse(output, source)
	if err != nil {
		if errors.Is(err, parser.ErrMalformedXML) || errors.Is(err, parser.ErrMissingGroup) {
			// Not part of the discovery log; an unreadable report counts as no tests
			d.logger.Debug().Err(err).Str("source", source).Msg("Ignoring unreadable XML report")
		}
		return nil, err
	}

	var tests []domain.TestCase
	for _, testcase := range candidates {
		if d.canAdd(testcase) {
			tests = append(tests, testcase)
		}
	}
	d.logger.Debug().
		Str("source", source).
		Int("candidates", len(candidates)).
		Int("tests", len(tests)).
		Msg("Parsed discovery output")
	return tests, nil
}

// testCaseInfo runs the executable and returns usable discovery output
func (d *Discoverer) testCaseInfo(ctx context.Context, source string, args []string) (string, error) {
	res := d.executor.Run(ctx, source, args, d.config.Timeout())
	d.logger.Debug().
		Str("source", source).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Bool("timed_out", res.TimedOut).
		Msg("Discovery process finished")

	if res.TimedOut {
		d.log.Normal(fmt.Sprintf("  Warning: Discovery timeout for %s\n", source))
		if res.Output == "" {
			d.log.Verbose("  Killed process. There was no output.\n")
		} else {
			d.log.Verbose("  Killed process. Threw away following output:\n" + res.Output)
		}
		return "", ErrDiscoveryTimeout
	}

	if res.Err != nil {
		d.log.Normal(fmt.Sprintf("  Error Occurred: %v\n", res.Err))
		return "", fmt.Errorf("%w: %w", ErrDiscoveryProcess, res.Err)
	}

	if res.ErrOutput != "" {
		d.log.Normal(fmt.Sprintf("  Error Occurred (exit code %d):\n%s", res.ExitCode, res.ErrOutput))
		d.log.Debug("  output:\n" + res.Output)
		return "", fmt.Errorf("%w: exit code %d", ErrDiscoveryProcess, res.ExitCode)
	}

	if res.Output == "" {
		d.log.Debug("  No output\n")
		return "", ErrEmptyOutput
	}

	return res.Output, nil
}

// canAdd applies the hidden test filter
func (d *Discoverer) canAdd(testcase domain.TestCase) bool {
	if d.config.IncludeHidden {
		return true
	}

	// Check tags for hidden signature
	for _, tag := range testcase.Tags {
		if parser.IsHiddenTag(tag) {
			return false
		}
	}
	return true
}
