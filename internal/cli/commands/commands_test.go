package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdisc/internal/cli"
	"tdisc/internal/config"
	"tdisc/internal/domain"
)

type fakeViewer struct {
	viewed *domain.DiscoveryReport
}

func (v *fakeViewer) View(report *domain.DiscoveryReport) error {
	v.viewed = report
	return nil
}

type testRoot struct {
	cmd    *cobra.Command
	cmds   *Commands
	viewer *fakeViewer
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestRoot() *testRoot {
	color.NoColor = true

	root := &cobra.Command{Use: "tdisc", SilenceUsage: true, SilenceErrors: true}
	cfg := config.New()
	var flags cli.Flags

	cmds := NewCommands(cfg, &flags, zerolog.Nop())
	viewer := &fakeViewer{}
	cmds.Browse.viewer = viewer
	cmds.Register(root, &flags, cfg)

	tr := &testRoot{cmd: root, cmds: cmds, viewer: viewer, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	root.SetOut(tr.stdout)
	root.SetErr(tr.stderr)
	return tr
}

func (tr *testRoot) run(args ...string) error {
	tr.cmd.SetArgs(args)
	return tr.cmd.ExecuteContext(context.Background())
}

// testTree creates a directory with a listing executable and a helper file
func testTree(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not available on windows")
	}

	dir := t.TempDir()
	listing := "#!/bin/sh\n" +
		"echo 'All available test cases:'\n" +
		"echo '  Vector can be sized and resized'\n" +
		"echo '      [vector][containers]'\n" +
		"echo '  String can be resized'\n" +
		"echo '      [string]'\n" +
		"echo '  Hidden case'\n" +
		"echo '      [.]'\n" +
		"echo '3 test cases'\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Catch_Tests"), []byte(listing), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helper"), []byte("#!/bin/sh\nexit 1\n"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "CMakeFiles"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeFiles", "Catch_Ignored"), []byte(listing), 0755))
	return dir
}

func TestDiscover_NamesOnly(t *testing.T) {
	dir := testTree(t)
	tr := newTestRoot()

	err := tr.run("discover", "--names-only", "--filename-filter", "^Catch_", dir)

	require.NoError(t, err)
	assert.Equal(t, "Vector can be sized and resized\nString can be resized\n", tr.stdout.String())
	assert.Empty(t, tr.stderr.String())
}

func TestDiscover_TreeAndSummary(t *testing.T) {
	dir := testTree(t)
	tr := newTestRoot()

	err := tr.run("discover", "--no-progress", "--details", "--include-hidden", "--filename-filter", "^Catch_", dir)

	require.NoError(t, err)
	out := tr.stdout.String()
	assert.Contains(t, out, "Found 3 test case(s) in 1 source(s):")
	assert.Contains(t, out, "[vector][containers]")
	assert.Contains(t, out, "Hidden case")
	assert.Contains(t, out, "✗ 1 source(s) produced no tests:")
	assert.Contains(t, out, "[rejected]")
	assert.NotContains(t, out, "Catch_Ignored")
}

func TestDiscover_NameFilterAndReport(t *testing.T) {
	dir := testTree(t)
	reportPath := filepath.Join(t.TempDir(), "report.yaml")
	tr := newTestRoot()

	err := tr.run("discover", "--no-progress", "--name", "*resize*", "--output", reportPath,
		"--logging-level", "verbose", filepath.Join(dir, "Catch_Tests"))
	require.NoError(t, err)
	assert.Contains(t, tr.stderr.String(), "  Testcase count: 2\n")

	browse := newTestRoot()
	require.NoError(t, browse.run("browse", "--report", reportPath, "--name", "String*"))

	require.NotNil(t, browse.viewer.viewed)
	assert.Equal(t, 1, browse.viewer.viewed.Meta.Sources)
	assert.Equal(t, 2, browse.viewer.viewed.Meta.TestCases)
	assert.NotEmpty(t, browse.viewer.viewed.Meta.RunID)
	require.Len(t, browse.viewer.viewed.Tests, 1)
	assert.Equal(t, "String can be resized", browse.viewer.viewed.Tests[0].Name)
	assert.Equal(t, []string{"string"}, browse.viewer.viewed.Tests[0].Tags)
}

func TestBrowse_Discovers(t *testing.T) {
	dir := testTree(t)
	tr := newTestRoot()

	require.NoError(t, tr.run("browse", "--no-progress", "--filename-filter", "^Catch_", dir))

	require.NotNil(t, tr.viewer.viewed)
	assert.Len(t, tr.viewer.viewed.Tests, 2)
}

func TestBrowse_NoSources(t *testing.T) {
	tr := newTestRoot()

	err := tr.run("browse")

	assert.ErrorIs(t, err, ErrNoSources)
	assert.Nil(t, tr.viewer.viewed)
}

func TestDiscover_InvalidCommandLine(t *testing.T) {
	dir := testTree(t)
	tr := newTestRoot()

	err := tr.run("discover", "--no-progress", "--commandline", "--success", "--logging-level", "debug", dir)

	require.NoError(t, err)
	assert.Contains(t, tr.stdout.String(), "No test cases found")
	assert.Contains(t, tr.stderr.String(), "invalid discovery command line")
}

func TestDiscover_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no sources", args: []string{"discover"}},
		{name: "invalid logging level", args: []string{"discover", "--logging-level", "chatty", "."}},
		{name: "invalid mode", args: []string{"discover", "--mode", "json", "."}},
		{name: "missing config file", args: []string{"discover", "--config", "/non/existent/tdisc.yaml", "."}},
		{name: "invalid log level", args: []string{"discover", "--log-level", "loud", "."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, newTestRoot().run(tt.args...))
		})
	}
}
