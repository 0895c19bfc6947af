package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sandeepkv93/habitd/internal/api"
	"github.com/sandeepkv93/habitd/internal/metrics"
	"github.com/sandeepkv93/habitd/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics",
		Long: `Serves the habit API under /api and metrics under /metrics.

Changes written to the database by other habitd processes are picked up
automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to listen_addr)")
	return cmd
}

// runServe blocks until ctx is cancelled or the listener fails.
func (a *app) runServe(ctx context.Context, addr string) error {
	handler := api.NewHandler(a.tracker, a.store, metrics.New(), a.logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
	watcher := watch.New(a.cfg.DBPath, func(ctx context.Context) {
		if err := handler.Reload(ctx); err != nil {
			a.logger.Warn("reload failed", zap.Error(err))
		}
	}, watch.WithLogger(a.logger))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
