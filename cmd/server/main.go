package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"licenseguard/internal/platform/config"
	"licenseguard/internal/platform/httpserver"
	"licenseguard/internal/platform/logger"
)

// main loads configuration, wires the engine and serves until SIGINT/SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Logging)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Server, app.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting licenseguard", "addr", cfg.Server.Addr, "storage", app.storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return app.publisher.Run(gctx)
	})
	g.Go(func() error {
		return app.sweeper.Run(gctx, cfg.Sweeper.Interval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	})
	return g.Wait()
}
