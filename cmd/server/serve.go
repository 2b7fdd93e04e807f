package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hoanghai1803/vnfinews/internal/api"
	"github.com/hoanghai1803/vnfinews/internal/refresh"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the aggregated news over HTTP",
		Description: `Runs an initial aggregation, then starts the HTTP server and refreshes
the collection every feeds.refresh_interval_minutes.

With --cron-only the refresh loop is disabled and updates happen only through
GET /cron/update or the manual refresh endpoint.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "cron-only",
				Usage:   "Disable the background refresh loop",
				EnvVars: []string{"VNFINEWS_CRON_ONLY"},
			},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comp, err := setup(c)
	if err != nil {
		return err
	}
	defer comp.Close()
	cfg := comp.cfg

	collection := refresh.NewCollection()
	scheduler := refresh.NewScheduler(comp.pipeline, collection, refresh.Options{
		Interval:   cfg.RefreshInterval(),
		Manual:     c.Bool("cron-only"),
		Recorder:   comp.store,
		Pruner:     comp.store,
		SummaryTTL: cfg.SummaryCacheTTL(),
	})

	// The first snapshot is built before the server accepts requests.
	scheduler.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(collection, scheduler, comp.store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", "http://"+cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-errCh:
		serveErr = fmt.Errorf("server failed: %w", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
	scheduler.Wait()

	return serveErr
}
