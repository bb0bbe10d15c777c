package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/walkscan/internal/config"
	walkscan "github.com/TFMV/walkscan/internal/walk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newWatchCmd builds the watch command, sharing the root command's viper
// instance so every root flag applies here too.
func newWatchCmd(v *viper.Viper) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the comparison whenever the tree changes",
		Long: `Run the comparison once, then watch the root directory and run it again
after every burst of filesystem changes. Excluded directories are not watched
and changes to the output file itself are ignored.

Examples:
  walkscan watch -d /path/to/tree
  walkscan watch -d /path/to/tree --debounce 2s --timeout 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}
			logger := walkscan.NewLogger(cfg.LogLevel())
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
			announce(stdout, cfg)
			if err := runComparison(stdout, stderr, cfg, logger); err != nil {
				return err
			}

			opts, err := cfg.Options(logger)
			if err != nil {
				return err
			}
			watchOpts := walkscan.WatchOptions{
				Options:  opts,
				Debounce: cfg.Debounce,
				Timeout:  cfg.Timeout,
				Ignore:   []string{cfg.Output},
			}

			fmt.Fprintf(stdout, "\nWatching %s for changes...\n", cfg.RootDir)
			fmt.Fprintln(stdout, "Press Ctrl+C to exit.")

			return walkscan.Watch(ctx, cfg.RootDir, watchOpts, func(ctx context.Context, batch []walkscan.WatchMessage) error {
				fmt.Fprintf(stdout, "\n%d change(s) detected, running again\n", len(batch))
				return runComparison(stdout, stderr, cfg, logger)
			})
		},
	}

	// Define flags for the watch command
	watchCmd.Flags().Duration(config.KeyDebounce, walkscan.DefaultDebounce, "quiet period after the last change before running again")
	watchCmd.Flags().Duration(config.KeyTimeout, 0, "duration to watch before exiting (e.g., 1h, 30m)")

	v.BindPFlag(config.KeyDebounce, watchCmd.Flags().Lookup(config.KeyDebounce))
	v.BindPFlag(config.KeyTimeout, watchCmd.Flags().Lookup(config.KeyTimeout))

	return watchCmd
}
