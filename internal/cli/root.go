package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"friendgraph/internal/config"
	"friendgraph/internal/journal"
	"friendgraph/internal/logging"
	"friendgraph/internal/metrics"
	"friendgraph/internal/social"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the friendgraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "friendgraph",
		Short:         "In-memory social network",
		Long:          "Users, friendships and posts with recent-post, separation and suggestion queries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "./friendgraph.yaml", "config path")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMonitorCommand(opts))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, tolerating its absence, and applies
// logging settings.
func loadConfig(opts *RootOptions) (config.Config, error) {
	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", opts.ConfigPath, err)
	}
	logging.SetLevel(cfg.Logging.Level)
	if opts.Verbose {
		logging.SetLevel("debug")
	}
	return cfg, nil
}

// openStore builds a store wired to metrics and, when enabled, the
// journal. The returned close func releases the journal.
func openStore(cfg config.Config) (*social.Store, func() error, error) {
	obs := []social.Option{social.WithObserver(metrics.Observer)}
	closeFn := func() error { return nil }
	if cfg.Journal.Enabled && cfg.Journal.DBPath != "" {
		db, err := journal.Open(cfg.Journal.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal %s: %w", cfg.Journal.DBPath, err)
		}
		obs = append(obs, social.WithObserver(journal.Recorder(db)))
		closeFn = db.Close
	}
	return social.New(obs...), closeFn, nil
}
