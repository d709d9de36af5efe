package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultDiscoverCommandLine, cfg.DiscoverCommandLine)
	assert.Equal(t, ModeAuto, cfg.DiscoverMode)
	assert.Equal(t, DefaultDiscoverTimeout, cfg.DiscoverTimeout)
	assert.Equal(t, LoggingLevelNormal, cfg.LoggingLevel)
	assert.Equal(t, DefaultPathsToIgnore, cfg.PathsToIgnore)

	cfg.PathsToIgnore[0] = "changed"
	assert.NotEqual(t, "changed", DefaultPathsToIgnore[0], "defaults must be copied")
}

func TestConfig_HasValidDiscoveryCommandline(t *testing.T) {
	tests := []struct {
		name        string
		commandLine string
		expected    bool
	}{
		{name: "list tests", commandLine: "--list-tests", expected: true},
		{name: "short list", commandLine: "-l", expected: true},
		{name: "names only", commandLine: "--list-test-names-only", expected: true},
		{name: "custom discover reporter", commandLine: "--discover", expected: true},
		{name: "list with xml reporter", commandLine: "--list-tests --reporter xml", expected: true},
		{name: "list with tag filter", commandLine: `--list-tests "[fast]"`, expected: true},
		{name: "empty", commandLine: "", expected: false},
		{name: "blank", commandLine: "   ", expected: false},
		{name: "no list option", commandLine: "--success", expected: false},
		{name: "list option as prefix only", commandLine: "--list-testsx", expected: false},
		{name: "unbalanced quote", commandLine: `--list-tests "[fast]`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.DiscoverCommandLine = tt.commandLine
			assert.Equal(t, tt.expected, cfg.HasValidDiscoveryCommandline())
		})
	}
}

func TestConfig_DiscoveryModes(t *testing.T) {
	tests := []struct {
		name        string
		mode        DiscoverMode
		commandLine string
		xml         bool
		namesOnly   bool
	}{
		{name: "auto text", mode: ModeAuto, commandLine: "--list-tests"},
		{name: "auto names", mode: ModeAuto, commandLine: "--list-test-names-only", namesOnly: true},
		{name: "auto xml reporter", mode: ModeAuto, commandLine: "--list-tests --reporter xml", xml: true},
		{name: "auto short xml reporter", mode: ModeAuto, commandLine: "-l -r=xml", xml: true},
		{name: "auto discover", mode: ModeAuto, commandLine: "--discover", xml: true},
		{name: "auto other reporter", mode: ModeAuto, commandLine: "--list-tests -r console"},
		{name: "forced xml", mode: ModeXML, commandLine: "--list-tests", xml: true},
		{name: "forced text", mode: ModeText, commandLine: "--list-test-names-only"},
		{name: "forced names", mode: ModeNames, commandLine: "--list-tests", namesOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.DiscoverMode = tt.mode
			cfg.DiscoverCommandLine = tt.commandLine
			assert.Equal(t, tt.xml, cfg.UseXMLDiscovery())
			assert.Equal(t, tt.namesOnly, cfg.UsesTestNameOnlyDiscovery())
		})
	}
}

func TestConfig_DiscoverArgs(t *testing.T) {
	cfg := New()
	cfg.DiscoverCommandLine = `--list-tests "[fast][db]" --reporter 'xml' $HOME`

	args, err := cfg.DiscoverArgs()
	require.NoError(t, err)
	assert.Equal(t, []string{"--list-tests", "[fast][db]", "--reporter", "xml", "$HOME"}, args)
}

func TestConfig_DiscoverArgsExpansions(t *testing.T) {
	tests := []struct {
		name        string
		commandLine string
		args        []string
	}{
		{name: "quoted tilde", commandLine: `--list-tests '~[slow]'`, args: []string{"--list-tests", "~[slow]"}},
		{name: "tilde inside word", commandLine: `--list-tests [fast]~[slow]`, args: []string{"--list-tests", "[fast]~[slow]"}},
		{name: "quoted braces", commandLine: `--list-tests "{a,b}"`, args: []string{"--list-tests", "{a,b}"}},
		{name: "unquoted tilde", commandLine: `--list-tests ~[slow]`},
		{name: "unquoted home", commandLine: `--list-tests ~/specs`},
		{name: "unquoted braces", commandLine: `--list-tests {a,b}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			cfg.DiscoverCommandLine = tt.commandLine

			args, err := cfg.DiscoverArgs()
			if tt.args == nil {
				assert.ErrorIs(t, err, ErrUnquotedExpansion)
				assert.False(t, cfg.HasValidDiscoveryCommandline())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.args, args)
			assert.True(t, cfg.HasValidDiscoveryCommandline())
		})
	}
}

func TestConfig_Timeout(t *testing.T) {
	cfg := New()
	cfg.DiscoverTimeout = 250
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout())

	cfg.DiscoverTimeout = 0
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestParseLoggingLevel(t *testing.T) {
	for level, name := range loggingLevelNames {
		parsed, err := ParseLoggingLevel(name)
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	parsed, err := ParseLoggingLevel(" Debug ")
	require.NoError(t, err)
	assert.Equal(t, LoggingLevelDebug, parsed)

	_, err = ParseLoggingLevel("chatty")
	assert.Error(t, err)
}

func TestParseDiscoverMode(t *testing.T) {
	mode, err := ParseDiscoverMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, mode)

	mode, err = ParseDiscoverMode("XML")
	require.NoError(t, err)
	assert.Equal(t, ModeXML, mode)

	_, err = ParseDiscoverMode("json")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "tdisc.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
commandline: "--list-tests --reporter xml"
timeout: 5000
filename-filter: "^Catch"
logging-level: verbose
`), 0644))

	t.Run("config file", func(t *testing.T) {
		cfg, err := Load(LoadOptions{ConfigFile: configFile})
		require.NoError(t, err)
		assert.Equal(t, "--list-tests --reporter xml", cfg.DiscoverCommandLine)
		assert.Equal(t, 5000, cfg.DiscoverTimeout)
		assert.Equal(t, "^Catch", cfg.FilenameFilter)
		assert.Equal(t, LoggingLevelVerbose, cfg.LoggingLevel)
		assert.True(t, cfg.UseXMLDiscovery())
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("TDISC_TIMEOUT", "42")
		t.Setenv("TDISC_INCLUDE_HIDDEN", "true")
		cfg, err := Load(LoadOptions{ConfigFile: configFile})
		require.NoError(t, err)
		assert.Equal(t, 42, cfg.DiscoverTimeout)
		assert.True(t, cfg.IncludeHidden)
	})

	t.Run("env file", func(t *testing.T) {
		envFile := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(envFile, []byte("TDISC_LOGGING_LEVEL=debug\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("TDISC_LOGGING_LEVEL") })

		cfg, err := Load(LoadOptions{ConfigFile: configFile, EnvFile: envFile})
		require.NoError(t, err)
		assert.Equal(t, LoggingLevelDebug, cfg.LoggingLevel)
	})

	t.Run("flags override everything", func(t *testing.T) {
		t.Setenv("TDISC_TIMEOUT", "42")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.Int(KeyTimeout, DefaultDiscoverTimeout, "")
		flags.String(KeyMode, string(DefaultDiscoverMode), "")
		require.NoError(t, flags.Parse([]string{"--timeout=7", "--mode=names"}))

		cfg, err := Load(LoadOptions{ConfigFile: configFile, Flags: flags})
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.DiscoverTimeout)
		assert.Equal(t, ModeNames, cfg.DiscoverMode)
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: filepath.Join(dir, "missing.yaml")})
		assert.Error(t, err)
	})

	t.Run("missing explicit env file", func(t *testing.T) {
		_, err := Load(LoadOptions{ConfigFile: configFile, EnvFile: filepath.Join(dir, "missing.env")})
		assert.Error(t, err)
	})

	t.Run("invalid logging level", func(t *testing.T) {
		t.Setenv("TDISC_LOGGING_LEVEL", "chatty")
		_, err := Load(LoadOptions{ConfigFile: configFile})
		assert.Error(t, err)
	})

	t.Run("defaults without config file", func(t *testing.T) {
		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, DefaultDiscoverCommandLine, cfg.DiscoverCommandLine)
		assert.Equal(t, DefaultPathsToIgnore, cfg.PathsToIgnore)
	})
}
