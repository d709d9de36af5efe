package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// DiscoverMode selects how the output of a test executable is interpreted
type DiscoverMode string

const (
	// ModeAuto derives the protocol from the discovery command line
	ModeAuto DiscoverMode = "auto"
	// ModeText parses the hierarchical text listing
	ModeText DiscoverMode = "text"
	// ModeNames treats every output line as a test name
	ModeNames DiscoverMode = "names"
	// ModeXML parses the XML report
	ModeXML DiscoverMode = "xml"
)

// ParseDiscoverMode converts a string into a DiscoverMode
func ParseDiscoverMode(s string) (DiscoverMode, error) {
	switch m := DiscoverMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeText, ModeNames, ModeXML:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown discover mode %q (want auto, text, names or xml)", s)
	}
}

// LoggingLevel is the verbosity of the discovery log
type LoggingLevel int

const (
	LoggingLevelQuiet LoggingLevel = iota
	LoggingLevelNormal
	LoggingLevelVerbose
	LoggingLevelDebug
)

var loggingLevelNames = map[LoggingLevel]string{
	LoggingLevelQuiet:   "quiet",
	LoggingLevelNormal:  "normal",
	LoggingLevelVerbose: "verbose",
	LoggingLevelDebug:   "debug",
}

// String returns the lower case name of the level
func (l LoggingLevel) String() string {
	if name, ok := loggingLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LoggingLevel(%d)", int(l))
}

// ParseLoggingLevel converts a level name into a LoggingLevel
func ParseLoggingLevel(s string) (LoggingLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for level, n := range loggingLevelNames {
		if n == name {
			return level, nil
		}
	}
	return LoggingLevelQuiet, fmt.Errorf("unknown logging level %q (want quiet, normal, verbose or debug)", s)
}

// ErrUnquotedExpansion is returned for command line words the shell would expand
var ErrUnquotedExpansion = errors.New("unquoted expansion in discover command line")

var (
	rgxValidDiscoverCommandLine = regexp.MustCompile(`(^|\s)(--list-tests|-l|--list-test-names-only|--discover)(\s|$)`)
	rgxNameOnlyDiscovery        = regexp.MustCompile(`(^|\s)--list-test-names-only(\s|$)`)
	rgxXMLDiscovery             = regexp.MustCompile(`(^|\s)(--discover|(-r|--reporter)(\s+|=)xml)(\s|$)`)
)

// Config holds all configuration for test discovery
type Config struct {
	// Discovery settings
	DiscoverCommandLine string
	DiscoverMode        DiscoverMode
	DiscoverTimeout     int // milliseconds, 0 waits indefinitely

	// Source selection
	FilenameFilter string
	PathsToIgnore  []string

	IncludeHidden bool
	LoggingLevel  LoggingLevel
	Disabled      bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		DiscoverCommandLine: DefaultDiscoverCommandLine,
		DiscoverMode:        DefaultDiscoverMode,
		DiscoverTimeout:     DefaultDiscoverTimeout,
		FilenameFilter:      DefaultFilenameFilter,
		LoggingLevel:        DefaultLoggingLevel,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// DiscoverArgs splits the discovery command line into process arguments.
// Quotes are honoured and variables are kept verbatim. Command substitutions,
// unquoted leading tildes and unquoted brace expressions are rejected.
func (c *Config) DiscoverArgs() ([]string, error) {
	if err := checkExpansions(c.DiscoverCommandLine); err != nil {
		return nil, fmt.Errorf("split discover command line: %w", err)
	}
	args, err := shell.Fields(c.DiscoverCommandLine, func(name string) string {
		if name == "IFS" {
			return ""
		}
		return "$" + name
	})
	if err != nil {
		return nil, fmt.Errorf("split discover command line: %w", err)
	}
	return args, nil
}

// checkExpansions rejects words the shell would rewrite: "~[slow]" becomes
// "$HOME[slow]" and "{a,b}" becomes two arguments. Quoting keeps them literal.
func checkExpansions(cmdline string) error {
	file, err := syntax.NewParser().Parse(strings.NewReader(cmdline), "")
	if err != nil {
		// Left to the field splitter to report
		return nil
	}

	var found error
	syntax.Walk(file, func(node syntax.Node) bool {
		word, ok := node.(*syntax.Word)
		if !ok || found != nil {
			return found == nil
		}
		for i, part := range word.Parts {
			lit, ok := part.(*syntax.Lit)
			if !ok {
				continue
			}
			switch {
			case i == 0 && strings.HasPrefix(lit.Value, "~"):
				found = fmt.Errorf("%w: tilde in %q", ErrUnquotedExpansion, lit.Value)
			case strings.Contains(lit.Value, "{") && strings.Contains(lit.Value, "}"):
				found = fmt.Errorf("%w: braces in %q", ErrUnquotedExpansion, lit.Value)
			}
		}
		return found == nil
	})
	return found
}

// HasValidDiscoveryCommandline reports whether the command line asks the executable to list its tests
func (c *Config) HasValidDiscoveryCommandline() bool {
	if strings.TrimSpace(c.DiscoverCommandLine) == "" {
		return false
	}
	if _, err := c.DiscoverArgs(); err != nil {
		return false
	}
	return rgxValidDiscoverCommandLine.MatchString(c.DiscoverCommandLine)
}

// UseXMLDiscovery reports whether discovery output is an XML report
func (c *Config) UseXMLDiscovery() bool {
	switch c.DiscoverMode {
	case ModeXML:
		return true
	case ModeAuto, "":
		return rgxXMLDiscovery.MatchString(c.DiscoverCommandLine)
	default:
		return false
	}
}

// UsesTestNameOnlyDiscovery reports whether discovery output is a plain list of test names
func (c *Config) UsesTestNameOnlyDiscovery() bool {
	switch c.DiscoverMode {
	case ModeNames:
		return true
	case ModeAuto, "":
		return !c.UseXMLDiscovery() && rgxNameOnlyDiscovery.MatchString(c.DiscoverCommandLine)
	default:
		return false
	}
}

// Timeout returns the discovery timeout, zero meaning no limit
func (c *Config) Timeout() time.Duration {
	if c.DiscoverTimeout <= 0 {
		return 0
	}
	return time.Duration(c.DiscoverTimeout) * time.Millisecond
}
