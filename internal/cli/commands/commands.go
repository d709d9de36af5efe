package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tdisc/internal/cli"
	"tdisc/internal/config"
	"tdisc/internal/discovery"
	"tdisc/internal/domain"
	"tdisc/internal/execution"
	"tdisc/internal/logging"
	"tdisc/internal/storage"
	"tdisc/internal/ui"
)

// ErrNoSources is returned when a command needs sources and none were given
var ErrNoSources = errors.New("no sources given")

// Commands holds all CLI commands
type Commands struct {
	Discover *DiscoverCommand
	Browse   *BrowseCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, flags *cli.Flags, logger zerolog.Logger) *Commands {
	// Initialize dependencies
	runner := execution.NewRunner()
	discoverer := discovery.NewDiscoverer(cfg, runner, logger)
	filter := discovery.NewFilter()
	browser := ui.NewTestBrowser()

	session := &session{
		config:     cfg,
		flags:      flags,
		discoverer: discoverer,
		filter:     filter,
		logger:     logger.With().Str("component", "cli").Logger(),
	}

	return &Commands{
		Discover: NewDiscoverCommand(flags, session),
		Browse:   NewBrowseCommand(flags, session, browser),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&flags.ConfigFile, "config", "", "Config file (default ./tdisc.yaml when present)")
	persistent.StringVar(&flags.EnvFile, "env-file", "", "Dotenv file loaded before reading TDISC_* variables (default .env when present)")
	persistent.StringVar(&flags.LogLevel, "log-level", "warn", "Diagnostic log level (trace, debug, info, warn, error, disabled)")
	cli.RegisterConfigFlags(persistent)

	// Load configuration once flags are parsed
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logging.SetLevel(flags.LogLevel); err != nil {
			return err
		}
		loaded, err := config.Load(flags.LoadOptions(cmd.Flags()))
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	// Discover command
	discoverCmd := &cobra.Command{
		Use:   "discover [sources...]",
		Short: "List the test cases of test executables",
		Long:  "Run each test executable with the discovery command line and list the test cases it reports. Directories are scanned for executables.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Discover.Execute,
	}
	discoverCmd.Flags().StringVarP(&flags.NameFilter, "name", "n", "", "Filter test cases by name pattern (supports wildcards, e.g., 'Vector*' or '*resize*')")
	discoverCmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Write a report to this file (.json, .yaml or .yml)")
	discoverCmd.Flags().BoolVarP(&flags.Details, "details", "d", false, "Show tags and source locations")
	discoverCmd.Flags().BoolVar(&flags.NamesOnly, "names-only", false, "Print one test name per line")
	discoverCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Hide the progress bar")
	rootCmd.AddCommand(discoverCmd)

	// Browse command
	browseCmd := &cobra.Command{
		Use:   "browse [sources...]",
		Short: "Browse discovered test cases interactively",
		Long:  "Discover test cases, or load a saved report, and display them in an interactive viewer",
		RunE:  c.Browse.Execute,
	}
	browseCmd.Flags().StringVarP(&flags.NameFilter, "name", "n", "", "Filter test cases by name pattern (supports wildcards)")
	browseCmd.Flags().StringVarP(&flags.ReportPath, "report", "r", "", "Load a report written by discover --output instead of running discovery")
	browseCmd.Flags().BoolVar(&flags.NoProgress, "no-progress", false, "Hide the progress bar")
	rootCmd.AddCommand(browseCmd)
}

// session runs discovery for the commands and builds the report
type session struct {
	config     *config.Config
	flags      *cli.Flags
	discoverer *discovery.Discoverer
	filter     *discovery.Filter
	logger     zerolog.Logger
}

// run resolves paths into sources, discovers their tests and writes the
// report when an output path is set. progress may be nil.
func (s *session) run(ctx context.Context, paths []string, progress io.Writer) (*domain.DiscoveryReport, []discovery.SourceResult, error) {
	if len(paths) == 0 {
		return nil, nil, ErrNoSources
	}

	sources, err := discovery.NewScanner(s.config.PathsToIgnore).Resolve(paths)
	if err != nil {
		return nil, nil, err
	}

	if progress != nil && len(sources) > 0 {
		s.discoverer.SetProgress(ui.NewProgressBar(len(sources), progress))
	} else {
		s.discoverer.SetProgress(nil)
	}

	runID := uuid.NewString()
	logger := s.logger.With().Str("run_id", runID).Logger()
	logger.Debug().Int("sources", len(sources)).Msg("Starting discovery")

	start := time.Now()
	tests, log := s.discoverer.GetTests(ctx, sources)
	duration := time.Since(start)

	tests = s.filter.FilterByName(tests, s.flags.NameFilter)
	if tests == nil {
		tests = []domain.TestCase{}
	}

	results := s.discoverer.Results()
	valid := 0
	for _, r := range results {
		if r.Ran() {
			valid++
		}
	}

	report := &domain.DiscoveryReport{
		Meta: domain.DiscoveryMeta{
			RunID:           runID,
			Sources:         len(sources),
			ValidSources:    valid,
			TestCases:       len(tests),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Tests: tests,
		Log:   log,
	}
	logger.Info().
		Int("sources", report.Meta.Sources).
		Int("valid_sources", valid).
		Int("test_cases", len(tests)).
		Dur("duration", duration).
		Msg("Discovery finished")

	if s.flags.Output != "" {
		st := storage.New(s.flags.Output)
		if err := st.Save(report); err != nil {
			return nil, nil, fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info().Str("path", st.Path()).Msg("Report written")
	}

	return report, results, nil
}

func progressWriter(flags *cli.Flags) io.Writer {
	if flags.NoProgress {
		return nil
	}
	return os.Stderr
}

func workingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return dir
}
