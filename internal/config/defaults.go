package config

const (
	// DefaultDiscoverCommandLine is the default command line passed to test executables
	DefaultDiscoverCommandLine = "--list-tests"
	// DefaultDiscoverMode derives the output protocol from the command line
	DefaultDiscoverMode = ModeAuto
	// DefaultDiscoverTimeout is the default discovery timeout in milliseconds
	DefaultDiscoverTimeout = 1000
	// DefaultFilenameFilter accepts every source
	DefaultFilenameFilter = ""
	// DefaultLoggingLevel is the default discovery log verbosity
	DefaultLoggingLevel = LoggingLevelNormal
	// DefaultConfigName is the config file looked up in the working directory
	DefaultConfigName = "tdisc"
	// DefaultEnvFile is the dotenv file loaded before reading the environment
	DefaultEnvFile = ".env"
	// EnvPrefix prefixes environment variables read into the config
	EnvPrefix = "TDISC"
)

// DefaultPathsToIgnore are the default directories to ignore when scanning for test executables
var DefaultPathsToIgnore = []string{
	"CMakeFiles",
	"node_modules",
	"vendor",
	"_deps",
}
