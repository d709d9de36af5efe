package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tdisc/internal/cli"
	"tdisc/internal/cli/commands"
	"tdisc/internal/config"
	"tdisc/internal/logging"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "tdisc",
		Short:         "Catch2 test discovery",
		Long:          `Discover the test cases of Catch2 test executables by running them with a listing command line and parsing the text or XML output.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create initial config with defaults, replaced once flags are parsed
	cfg := config.New()

	// Level is narrowed by --log-level
	logCfg := logging.DefaultConfig()
	logCfg.Level = "trace"
	logger := logging.New(logCfg)

	var flags cli.Flags

	cmds := commands.NewCommands(cfg, &flags, logger)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
