package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandeepkv93/habitd/internal/config"
	"github.com/sandeepkv93/habitd/internal/logging"
	"github.com/sandeepkv93/habitd/internal/storage"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the flags and the resources opened for one command run.
type app struct {
	configPath string
	dbPath     string
	verbose    bool

	in  *bufio.Reader
	out io.Writer
	now func() time.Time

	cfg     config.RuntimeConfig
	logger  *zap.Logger
	repo    *storage.SQLiteRepository
	store   *storage.StateStore
	tracker *tracker.Tracker
}

func newApp(in io.Reader, out io.Writer, now func() time.Time) *app {
	if now == nil {
		now = time.Now
	}
	return &app{in: bufio.NewReader(in), out: out, now: now}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "habitd",
		Short: "habitd - habit tracker with streaks, analytics and a calendar heatmap",
		Long: `habitd tracks daily, weekly and custom-weekday habits.

Run without arguments to start the interactive terminal UI. Subcommands
operate on the same SQLite store, and "habitd serve" exposes it over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal, so it logs to a file instead.
			return a.setup(cmd.Context(), cmd == cmd.Root())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.listCmd(),
		a.addCmd(),
		a.deleteCmd(),
		a.doneCmd(),
		a.markAllCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.serveCmd(),
	)
	return root
}

// execute runs root and then releases the store and flushes the logger. The
// deferred close also covers failing commands, where cobra skips post-run
// hooks.
func (a *app) execute(ctx context.Context, root *cobra.Command) error {
	defer a.close()
	return root.ExecuteContext(ctx)
}

func (a *app) setup(ctx context.Context, logToFile bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(a.dbPath) != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	opts := logging.Options{Level: cfg.LogLevel, Verbose: a.verbose}
	if logToFile {
		opts.Path = cfg.LogPath
	}
	if a.logger, err = logging.New(opts); err != nil {
		return err
	}

	if a.repo, err = storage.OpenSQLite(ctx, cfg.DBPath); err != nil {
		return err
	}
	a.store = storage.NewStateStore(a.repo)

	snap, found, err := a.store.Load(ctx)
	if err != nil {
		return err
	}
	if !found && cfg.SeedOnFirstRun {
		snap = tracker.SampleSnapshot(a.now().In(loc))
		if err := a.store.Save(ctx, snap); err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
		a.logger.Info("seeded sample habits", zap.String("db", cfg.DBPath), zap.Int("habits", len(snap.Habits)))
	}
	a.tracker = tracker.New(snap, tracker.WithClock(a.now), tracker.WithLocation(loc))
	a.logger.Debug("state loaded", zap.String("db", cfg.DBPath), zap.Int("habits", len(snap.Habits)))
	return nil
}

func (a *app) close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close store", zap.Error(err))
		}
		a.repo = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) save(ctx context.Context, op string) error {
	if err := a.store.Save(ctx, a.tracker.Snapshot()); err != nil {
		return fmt.Errorf("save after %s: %w", op, err)
	}
	a.logger.Debug("state saved", zap.String("op", op))
	return nil
}

// confirm asks a yes/no question on the command's input. Anything but y or
// yes declines.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
