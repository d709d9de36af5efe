package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tdisc/internal/cli"
	"tdisc/internal/domain"
	"tdisc/internal/storage"
	"tdisc/internal/ui"
)

// BrowseCommand handles the browse command
type BrowseCommand struct {
	flags   *cli.Flags
	session *session
	viewer  ui.Viewer
}

// NewBrowseCommand creates a new BrowseCommand
func NewBrowseCommand(flags *cli.Flags, session *session, viewer ui.Viewer) *BrowseCommand {
	return &BrowseCommand{
		flags:   flags,
		session: session,
		viewer:  viewer,
	}
}

// Execute runs the command
func (bc *BrowseCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := bc.report(cmd, args)
	if err != nil {
		return err
	}

	if len(report.Tests) == 0 {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No test cases found")
		ui.NewFormatter(cmd.ErrOrStderr(), workingDir()).PrintLog(report.Log)
		return nil
	}

	return bc.viewer.View(report)
}

func (bc *BrowseCommand) report(cmd *cobra.Command, args []string) (*domain.DiscoveryReport, error) {
	if bc.flags.ReportPath == "" {
		report, _, err := bc.session.run(cmd.Context(), args, progressWriter(bc.flags))
		return report, err
	}

	report, err := storage.New(bc.flags.ReportPath).Load()
	if err != nil {
		return nil, err
	}
	report.Tests = bc.session.filter.FilterByName(report.Tests, bc.flags.NameFilter)
	return report, nil
}
