package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/pubadmin"
	"github.com/eringen/pubadmin/blogapi"
	"github.com/eringen/pubadmin/tui"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	logFile    string
	seedCount  int
)

var rootCmd = &cobra.Command{
	Use:   "pubadmin",
	Short: "Blog administration console",
	Long: `pubadmin serves an admin web UI over a blog listing API and
ships a terminal front-end over the same table.

Configuration is read from an optional YAML file (--config) and
PUBADMIN_* environment variables, which take precedence.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pubadmin.LoadConfig(configPath)
		if err != nil {
			return err
		}
		logger, flush := pubadmin.SetupLogger(cfg, os.Stderr)
		defer flush()

		a := pubadmin.New(cfg, pubadmin.WithLogger(logger))
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.Run(ctx)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse blogs in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pubadmin.LoadConfig(configPath)
		if err != nil {
			return err
		}

		var w io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			w = f
		}
		logger, flush := pubadmin.SetupLogger(cfg, w)
		defer flush()

		client := blogapi.NewClient(cfg.APIEndpoint, blogapi.WithTimeout(cfg.APITimeout))
		return tui.Run(cmd.Context(), client, tui.Options{
			Logger:   logger,
			PageSize: cfg.PageSize,
			Quiet:    cfg.SearchDelay,
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample blogs into the local API database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount < 1 {
			return fmt.Errorf("--count must be positive, got %d", seedCount)
		}
		cfg, err := pubadmin.LoadConfig(configPath)
		if err != nil {
			return err
		}
		store, err := pubadmin.NewStore(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := pubadmin.Seed(cmd.Context(), store, seedCount); err != nil {
			return err
		}
		n, err := store.CountBlogs(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d blogs into %s (%d total)\n", seedCount, cfg.DatabasePath, n)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pubadmin version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pubadmin %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	tuiCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of discarding them")
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 50, "Number of sample blogs to insert")

	rootCmd.AddCommand(serveCmd, tuiCmd, seedCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
