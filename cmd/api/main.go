package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/parkwise/rainier-guide/internal/adapters/http"
	"github.com/parkwise/rainier-guide/internal/bootstrap"
	"github.com/parkwise/rainier-guide/internal/config"
	"github.com/parkwise/rainier-guide/internal/observability/logging"
	"github.com/parkwise/rainier-guide/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.SetGlobal(logging.NewJSONLogger("guide-api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics("guide-api")
	router := httpadapter.NewRouter(app.GuideUC, app.IngestUC, app.Repo, app.Queue, serverMetrics).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("api_shutdown_error", "error", err)
	}
}
