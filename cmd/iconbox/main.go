// ABOUTME: Entry point for the iconbox command line tool
// ABOUTME: Wires config, logging, the SQLite store and the library service into a cobra command tree

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/2389/iconbox/internal/config"
	"github.com/2389/iconbox/internal/library"
	"github.com/2389/iconbox/internal/scan"
	"github.com/2389/iconbox/internal/store"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds the state shared by every subcommand for one invocation.
type app struct {
	configPath string
	dbPath     string
	jsonOutput bool

	cfg      *config.Config
	logger   *slog.Logger
	store    store.Store
	lib      *library.Service
	closeLog func() error
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The caller closes a once Execute returns,
// since cobra skips post-run hooks when a command fails.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "iconbox",
		Short:         "Organize SVG icons into nested collections",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: $ICONBOX_CONFIG or ~/.config/iconbox/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Database path (overrides database.path)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newCollectionsCmd(a),
		newIconsCmd(a),
		newSettingsCmd(a),
		newStatsCmd(a),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// open loads config, sets up logging and opens the store.
func (a *app) open(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.ConfigPath())
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	a.cfg = cfg

	a.logger, a.closeLog = setupLogger(cfg.Logging, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)

	st, err := store.NewSQLiteStore(cfg.Database.Path,
		store.WithDriver(cfg.Database.Driver),
		store.WithLogger(a.logger.With("component", "store")),
	)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.store = st

	scanner := scan.New(
		scan.WithWorkers(cfg.Import.Workers),
		scan.WithMaxFileSize(cfg.Import.MaxFileSize),
		scan.WithLogger(a.logger.With("component", "scan")),
	)
	a.lib = library.New(st, scanner, a.logger)
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.closeLog != nil {
		errs = append(errs, a.closeLog())
		a.closeLog = nil
	}
	return errors.Join(errs...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No database needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "iconbox %s\n", version)
		},
	}
}
