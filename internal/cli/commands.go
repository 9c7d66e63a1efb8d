package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"friendgraph/internal/analytics"
	"friendgraph/internal/api"
	"friendgraph/internal/cmdlog"
	"friendgraph/internal/config"
	"friendgraph/internal/journal"
	"friendgraph/internal/logging"
	"friendgraph/internal/metrics"
	"friendgraph/internal/shell"
	"friendgraph/internal/theme"
)

func NewInitCommand(opts *RootOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = opts.ConfigPath
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			abs, _ := filepath.Abs(path)
			theme.PrintBanner(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "path to write config (defaults to --config)")
	return cmd
}

func NewShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive console",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logging.SetOutput(cmd.ErrOrStderr())
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			metrics.StartServer(cfg.Metrics.Addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			theme.PrintBanner(cmd.OutOrStdout())
			return cmdlog.Run("shell", func() error {
				err := shell.New(store, cfg, cmd.OutOrStdout()).Run(ctx, cmd.InOrStdin())
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
}

func NewServeCommand(opts *RootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.API.Addr = addr
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			metrics.StartServer(cfg.Metrics.Addr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			theme.PrintBanner(cmd.ErrOrStderr())
			gin.SetMode(gin.ReleaseMode)
			return cmdlog.Run("serve", func() error {
				return api.Serve(ctx, cfg.API.Addr, api.NewRouter(store, cfg))
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func NewMonitorCommand(opts *RootOptions) *cobra.Command {
	var hours int
	var top int
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Show hourly activity from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.Journal.DBPath == "" || cfg.Journal.DBPath == ":memory:" {
				return errors.New("monitor needs a file-backed journal (journal.dbPath)")
			}
			return cmdlog.Run("monitor", func() error {
				db, err := journal.Open(cfg.Journal.DBPath)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer db.Close()
				end := time.Now().UTC()
				entries, err := db.LoadRange(cmd.Context(), end.Add(-time.Duration(hours)*time.Hour), end.Add(time.Second), "")
				if err != nil {
					return fmt.Errorf("load journal: %w", err)
				}
				return printActivity(cmd, entries, top)
			})
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 24, "look-back window in hours")
	cmd.Flags().IntVar(&top, "top", 5, "number of top posters to show")
	return cmd
}

func printActivity(cmd *cobra.Command, entries []journal.Entry, top int) error {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No activity recorded.")
		return nil
	}
	b := analytics.HourlyActivity(entries)
	for _, k := range analytics.SortedBucketKeys(b) {
		kinds := make([]string, 0, len(b[k]))
		for kind := range b[k] {
			kinds = append(kinds, kind)
		}
		sort.Strings(kinds)
		fmt.Fprintf(out, "%s ->", k.Format("2006-01-02 15:00"))
		for _, kind := range kinds {
			fmt.Fprintf(out, " %s=%d", kind, b[k][kind])
		}
		fmt.Fprintln(out)
	}
	if posters := analytics.TopPosters(entries, top); len(posters) > 0 {
		fmt.Fprintln(out, "Top posters:")
		for _, p := range posters {
			fmt.Fprintf(out, "  %s %d\n", p.Name, p.N)
		}
	}
	return nil
}
