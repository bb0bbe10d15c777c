// Package config holds the settings of a walk-versus-scan run. A Config is
// built once from flags, environment and an optional config file and is
// then passed explicitly to everything that needs it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	walkscan "github.com/TFMV/walkscan/internal/walk"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Keys shared by flags, environment variables and config files.
const (
	KeyRootDir        = "rootdir"
	KeyOutput         = "output"
	KeyExclude        = "exclude"
	KeyFollowSymlinks = "follow-symlinks"
	KeyStrict         = "strict"
	KeyProgress       = "progress"
	KeyVerbose        = "verbose"
	KeyDebounce       = "debounce"
	KeyTimeout        = "timeout"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. WALKSCAN_ROOTDIR.
const EnvPrefix = "WALKSCAN"

// Defaults.
const (
	DefaultRootDir = "."
	DefaultOutput  = "walk_vs_scan.txt"
)

// Config is the complete configuration of a run.
type Config struct {
	RootDir        string        // Root of the tree to traverse
	Output         string        // Report file
	Exclude        []string      // Directory names never descended into
	FollowSymlinks bool          // Descend into symlinked directories
	Strict         bool          // Treat a file vanishing before stat as fatal
	Progress       bool          // Draw a spinner on stderr
	Verbose        bool          // Debug logging
	Debounce       time.Duration // Watch mode quiet period
	Timeout        time.Duration // Watch mode duration, 0 for unlimited
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		RootDir:  DefaultRootDir,
		Output:   DefaultOutput,
		Exclude:  append([]string(nil), walkscan.DefaultExclude...),
		Debounce: walkscan.DefaultDebounce,
	}
}

// SetDefaults registers the defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyRootDir, d.RootDir)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyExclude, d.Exclude)
	v.SetDefault(KeyFollowSymlinks, d.FollowSymlinks)
	v.SetDefault(KeyStrict, d.Strict)
	v.SetDefault(KeyProgress, d.Progress)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyDebounce, d.Debounce)
	v.SetDefault(KeyTimeout, d.Timeout)
}

// BindEnv makes every key readable from WALKSCAN_* environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// FromViper reads and validates a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		RootDir:        v.GetString(KeyRootDir),
		Output:         v.GetString(KeyOutput),
		Exclude:        splitList(v.GetStringSlice(KeyExclude)),
		FollowSymlinks: v.GetBool(KeyFollowSymlinks),
		Strict:         v.GetBool(KeyStrict),
		Progress:       v.GetBool(KeyProgress),
		Verbose:        v.GetBool(KeyVerbose),
		Debounce:       v.GetDuration(KeyDebounce),
		Timeout:        v.GetDuration(KeyTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.RootDir == "" {
		return errors.New("root directory must not be empty")
	}
	if c.Output == "" {
		return errors.New("output file must not be empty")
	}
	if _, err := walkscan.NewExclusionSet(c.Exclude...); err != nil {
		return fmt.Errorf("invalid exclude list: %w", err)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("invalid debounce: %s", c.Debounce)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// LogLevel maps the verbosity settings to a logger level.
func (c Config) LogLevel() walkscan.LogLevel {
	if c.Verbose {
		return walkscan.LogLevelDebug
	}
	return walkscan.LogLevelWarn
}

// Options builds the traversal options shared by both engines.
func (c Config) Options(logger *zap.Logger) (walkscan.Options, error) {
	exclude, err := walkscan.NewExclusionSet(c.Exclude...)
	if err != nil {
		return walkscan.Options{}, err
	}
	return walkscan.Options{
		Exclude:        exclude,
		FollowSymlinks: c.FollowSymlinks,
		Strict:         c.Strict,
		Logger:         logger,
	}, nil
}

// splitList accepts both repeated values and comma separated values, the
// latter being how lists arrive from environment variables.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
