package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"duesync/internal/server"
	"duesync/internal/shared"

	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API used by browser front ends: course and space
// listings, settings writes, and the SSE generation stream.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.library == nil || r.engine == nil {
		return fmt.Errorf("%w: library not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	router := server.NewBasicRouter()
	router.Use(server.RecoveryMiddleware(r.logger))
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(server.NewAPIHandler(r.library, r.engine, r.store, r.logger))

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting API server", "addr", addr)
		r.writePlain("Listening on http://%s\n", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		r.logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}

	return nil
}
