package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tdisc/internal/cli"
	"tdisc/internal/ui"
)

// DiscoverCommand handles the discover command
type DiscoverCommand struct {
	flags   *cli.Flags
	session *session
}

// NewDiscoverCommand creates a new DiscoverCommand
func NewDiscoverCommand(flags *cli.Flags, session *session) *DiscoverCommand {
	return &DiscoverCommand{
		flags:   flags,
		session: session,
	}
}

// Execute runs the command
func (dc *DiscoverCommand) Execute(cmd *cobra.Command, args []string) error {
	progress := progressWriter(dc.flags)
	if dc.flags.NamesOnly {
		progress = nil
	}

	report, results, err := dc.session.run(cmd.Context(), args, progress)
	if err != nil {
		return err
	}

	out := ui.NewFormatter(cmd.OutOrStdout(), workingDir())
	diag := ui.NewFormatter(cmd.ErrOrStderr(), workingDir())

	if dc.flags.NamesOnly {
		out.PrintNames(report.Tests)
		diag.PrintLog(report.Log)
		return nil
	}

	if len(report.Tests) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No test cases found")
	} else {
		out.PrintTestList(report.Tests, dc.flags.Details)
	}
	out.PrintSummary(report.Meta, results)
	diag.PrintLog(report.Log)
	return nil
}
