package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Command flags use the same names so they bind directly.
const (
	KeyCommandLine    = "commandline"
	KeyMode           = "mode"
	KeyTimeout        = "timeout"
	KeyFilenameFilter = "filename-filter"
	KeyIncludeHidden  = "include-hidden"
	KeyLoggingLevel   = "logging-level"
	KeyDisabled       = "disabled"
	KeyPathsToIgnore  = "ignore"
)

// LoadOptions defines explicit configuration loading inputs
type LoadOptions struct {
	// ConfigFile forces loading from a specific config file when set
	ConfigFile string
	// EnvFile is the dotenv file to load, DefaultEnvFile when empty
	EnvFile string
	// Flags are bound on top of file and environment values
	Flags *pflag.FlagSet
}

// Load builds a Config from defaults, an optional config file, the environment and flags
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && opts.EnvFile != "" {
		// Only an explicitly requested env file has to exist
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		if err := v.BindPFlags(opts.Flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyCommandLine, DefaultDiscoverCommandLine)
	v.SetDefault(KeyMode, string(DefaultDiscoverMode))
	v.SetDefault(KeyTimeout, DefaultDiscoverTimeout)
	v.SetDefault(KeyFilenameFilter, DefaultFilenameFilter)
	v.SetDefault(KeyIncludeHidden, false)
	v.SetDefault(KeyLoggingLevel, DefaultLoggingLevel.String())
	v.SetDefault(KeyDisabled, false)
	v.SetDefault(KeyPathsToIgnore, DefaultPathsToIgnore)
}

func fromViper(v *viper.Viper) (*Config, error) {
	mode, err := ParseDiscoverMode(v.GetString(KeyMode))
	if err != nil {
		return nil, err
	}
	level, err := ParseLoggingLevel(v.GetString(KeyLoggingLevel))
	if err != nil {
		return nil, err
	}
	timeout := v.GetInt(KeyTimeout)
	if timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %d", timeout)
	}

	cfg := New()
	cfg.DiscoverCommandLine = v.GetString(KeyCommandLine)
	cfg.DiscoverMode = mode
	cfg.DiscoverTimeout = timeout
	cfg.FilenameFilter = v.GetString(KeyFilenameFilter)
	cfg.IncludeHidden = v.GetBool(KeyIncludeHidden)
	cfg.LoggingLevel = level
	cfg.Disabled = v.GetBool(KeyDisabled)
	cfg.PathsToIgnore = v.GetStringSlice(KeyPathsToIgnore)
	return cfg, nil
}
