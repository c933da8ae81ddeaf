package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/mediscribe-api/cmd/mainconfig"
	"github.com/wolfman30/mediscribe-api/internal/api/router"
	"github.com/wolfman30/mediscribe-api/internal/app/bootstrap"
	"github.com/wolfman30/mediscribe-api/internal/appointments"
	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
	"github.com/wolfman30/mediscribe-api/internal/conversations"
	"github.com/wolfman30/mediscribe-api/internal/doctors"
	"github.com/wolfman30/mediscribe-api/internal/llm"
	"github.com/wolfman30/mediscribe-api/internal/observability/metrics"
	"github.com/wolfman30/mediscribe-api/internal/patients"
	"github.com/wolfman30/mediscribe-api/internal/transcribe"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting mediscribe API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store", cfg.StoreBackend,
	)

	ctx := context.Background()
	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a dedicated registry with process and Go collectors.
func setupMetrics() (http.Handler, *metrics.Metrics, *metrics.HTTPMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.New(reg), metrics.NewHTTPMetrics(reg)
}

// buildHandler wires every dependency and returns the HTTP handler plus a
// cleanup func for backend connections.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	metricsHandler, m, httpMetrics := setupMetrics()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load aws config: %w", err)
	}

	st, closeStore, err := bootstrap.BuildStore(ctx, cfg, awsCfg, m, logger)
	if err != nil {
		return nil, nil, err
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	cleanup := func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		closeStore()
	}

	llmClient, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, m, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	transcriber, err := bootstrap.BuildTranscriber(cfg, awsCfg, m, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	generator := llm.NewModelGenerator(llmClient, bootstrap.GeneratorConfig(cfg))
	searcher := bootstrap.BuildSearcher(cfg, redisClient, m, logger)
	advisor := llm.NewPrerequisitesAdvisor(searcher, generator, logger)

	apptRepo := appointments.NewRepository(st, logger)

	r := router.New(&router.Config{
		Logger:               logger,
		AppointmentsHandler:  appointments.NewHandler(apptRepo, appointments.NewAvailability(apptRepo, logger), logger),
		PatientsHandler:      patients.NewHandler(patients.NewRepository(st), logger),
		ConversationsHandler: conversations.NewHandler(conversations.NewRepository(st), logger),
		DoctorsHandler:       doctors.NewHandler(doctors.NewRepository(st), logger),
		LLMHandler:           llm.NewHandler(llm.NewService(generator, advisor, m, logger), logger),
		TranscribeHandler:    transcribe.NewHandler(transcriber, logger),
		MetricsHandler:       metricsHandler,
		HTTPMetrics:          httpMetrics,
		CORSAllowedOrigins:   cfg.CORSAllowedOrigins,
	})
	return r, cleanup, nil
}
