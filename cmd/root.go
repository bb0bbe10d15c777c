package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/TFMV/walkscan/internal/compare"
	"github.com/TFMV/walkscan/internal/config"
	walkscan "github.com/TFMV/walkscan/internal/walk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "0.1.0"

// NewRootCmd builds the walkscan command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "walkscan",
		Short: "Compare a recursive walk with a stack based scan of a directory tree",
		Long: `walkscan traverses a directory tree twice, once with a recursive
depth-first walk and once with a queue driven breadth-first scan, writes what
each pass found to the output file and prints how long each pass took.

Examples:
  walkscan -d /path/to/tree
  walkscan -d /path/to/tree -o report.txt --exclude .git,node_modules
  walkscan watch -d /path/to/tree`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			logger := walkscan.NewLogger(cfg.LogLevel())
			defer logger.Sync()

			out := cmd.OutOrStdout()
			announce(out, cfg)
			return runComparison(out, cmd.ErrOrStderr(), cfg, logger)
		},
	}

	// Flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.walkscan.yaml)")
	flags.StringP(config.KeyRootDir, "d", config.DefaultRootDir, "root directory of tree to be traversed")
	flags.StringP(config.KeyOutput, "o", config.DefaultOutput, "output file to contain the results of walk vs. scan")
	flags.StringSliceP(config.KeyExclude, "x", walkscan.DefaultExclude, "directory names to omit from traversal (comma-separated, globs allowed)")
	flags.Bool(config.KeyFollowSymlinks, false, "descend into symbolic links to directories")
	flags.Bool(config.KeyStrict, false, "abort when a file disappears before its metadata can be read")
	flags.Bool(config.KeyProgress, false, "show a progress spinner on stderr")
	flags.BoolP(config.KeyVerbose, "v", false, "enable verbose logging")

	// Bind flags to viper
	v.BindPFlag(config.KeyRootDir, flags.Lookup(config.KeyRootDir))
	v.BindPFlag(config.KeyOutput, flags.Lookup(config.KeyOutput))
	v.BindPFlag(config.KeyExclude, flags.Lookup(config.KeyExclude))
	v.BindPFlag(config.KeyFollowSymlinks, flags.Lookup(config.KeyFollowSymlinks))
	v.BindPFlag(config.KeyStrict, flags.Lookup(config.KeyStrict))
	v.BindPFlag(config.KeyProgress, flags.Lookup(config.KeyProgress))
	v.BindPFlag(config.KeyVerbose, flags.Lookup(config.KeyVerbose))

	rootCmd.AddCommand(newWatchCmd(v))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	config.SetDefaults(v)
	config.BindEnv(v)

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		// Search config in home directory with name ".walkscan" (without extension).
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".walkscan")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	if used := v.ConfigFileUsed(); used != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", used)
	}
	return nil
}

// announce echoes the run parameters before any traversal starts.
func announce(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "Directory to be scanned/walked is: %s\n", cfg.RootDir)
	fmt.Fprintf(w, "Output to file: %s\n\n", cfg.Output)
}

// runComparison writes a fresh report to cfg.Output and prints the timing
// summary. A failed run leaves the partial report in place.
func runComparison(stdout, stderr io.Writer, cfg config.Config, logger *zap.Logger) error {
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("cannot open output file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	opts := []compare.Option{compare.WithLogger(logger)}
	if cfg.Progress {
		opts = append(opts, compare.WithProgress(stderr))
	}
	summary, runErr := compare.NewRunner(cfg, opts...).Run(w)

	if err := w.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	if err := f.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("closing %s: %w", cfg.Output, err)
	}
	if runErr != nil {
		return runErr
	}

	for _, line := range summary.Lines() {
		fmt.Fprintln(stdout, line)
	}
	return nil
}
