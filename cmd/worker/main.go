package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/parkwise/rainier-guide/internal/bootstrap"
	"github.com/parkwise/rainier-guide/internal/config"
	"github.com/parkwise/rainier-guide/internal/observability/logging"
	"github.com/parkwise/rainier-guide/internal/observability/metrics"
)

const serviceName = "guide-worker"

func main() {
	cfg := config.Load()
	logging.SetGlobal(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := startMetricsServer(cfg.WorkerMetricsPort, workerMetrics)
	defer shutdownMetricsServer(metricsServer)

	// Seed the curated knowledge base before taking queue traffic so
	// the guide can answer from first startup.
	seedCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	seeded, err := app.SeedUC.Seed(seedCtx)
	cancel()
	if err != nil {
		slog.Error("knowledge_seed_failed", "error", err)
		os.Exit(1)
	}
	workerMetrics.SetSeededDocuments(seeded)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		slog.Info("worker_subscribed", "subject", cfg.NATSUploadSubject)
		err := app.Queue.SubscribeDocumentUploaded(ctx, func(handlerCtx context.Context, documentID string) error {
			processCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
			defer cancel()

			workerMetrics.StartDocument()
			start := time.Now()
			processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
			workerMetrics.FinishDocument(serviceName, time.Since(start), processErr)
			return processErr
		})
		if err != nil {
			slog.Error("worker_subscribe_failed", "subject", cfg.NATSUploadSubject, "error", err)
			stop()
		}
	}()

	go func() {
		defer wg.Done()
		slog.Info("worker_subscribed", "subject", cfg.NATSReindexSubject)
		err := app.Queue.SubscribeReindex(ctx, func(handlerCtx context.Context) error {
			reindexCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
			defer cancel()

			count, seedErr := app.SeedUC.Seed(reindexCtx)
			if seedErr == nil {
				workerMetrics.SetSeededDocuments(count)
			}
			return seedErr
		})
		if err != nil {
			slog.Error("worker_subscribe_failed", "subject", cfg.NATSReindexSubject, "error", err)
			stop()
		}
	}()

	wg.Wait()
}

func startMetricsServer(port string, workerMetrics *metrics.WorkerMetrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", workerMetrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Warn("metrics_server_failed", "error", err)
		}
	}()
	return server
}

func shutdownMetricsServer(server *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}
