package cli

import (
	"github.com/spf13/pflag"

	"tdisc/internal/config"
)

// Flags holds command-line flags that are not configuration values
type Flags struct {
	ConfigFile string
	EnvFile    string
	LogLevel   string

	NameFilter string
	Output     string
	ReportPath string
	Details    bool
	NamesOnly  bool
	NoProgress bool
}

// LoadOptions converts the flags into configuration loading options.
// fs carries the configuration flags registered by RegisterConfigFlags.
func (f *Flags) LoadOptions(fs *pflag.FlagSet) config.LoadOptions {
	return config.LoadOptions{
		ConfigFile: f.ConfigFile,
		EnvFile:    f.EnvFile,
		Flags:      fs,
	}
}

// RegisterConfigFlags defines one flag per configuration key. Flags that are
// not set on the command line leave file and environment values in place.
func RegisterConfigFlags(fs *pflag.FlagSet) {
	fs.String(config.KeyCommandLine, config.DefaultDiscoverCommandLine,
		"Arguments passed to every test executable to list its tests")
	fs.String(config.KeyMode, string(config.DefaultDiscoverMode),
		"Discovery output format: auto, text, names or xml")
	fs.Int(config.KeyTimeout, config.DefaultDiscoverTimeout,
		"Discovery timeout per executable in milliseconds (0 waits indefinitely)")
	fs.String(config.KeyFilenameFilter, config.DefaultFilenameFilter,
		"Regular expression the executable name (without extension) must match")
	fs.Bool(config.KeyIncludeHidden, false,
		"Include test cases with hidden tags such as [.] or [!hide]")
	fs.String(config.KeyLoggingLevel, config.DefaultLoggingLevel.String(),
		"Discovery log verbosity: quiet, normal, verbose or debug")
	fs.Bool(config.KeyDisabled, false, "Disable test discovery")
	fs.StringSlice(config.KeyPathsToIgnore, config.DefaultPathsToIgnore,
		"Directory names skipped when scanning source directories")
}
