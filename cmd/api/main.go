package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dfw-design-build/leadintake/internal/api/router"
	"github.com/dfw-design-build/leadintake/internal/app/bootstrap"
	appconfig "github.com/dfw-design-build/leadintake/internal/config"
	"github.com/dfw-design-build/leadintake/internal/contact"
	"github.com/dfw-design-build/leadintake/internal/observability/metrics"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadintake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	metricsHandler, leadMetrics := setupMetrics()
	if !cfg.MetricsEnabled {
		metricsHandler = nil
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	limiter := bootstrap.BuildRateLimiter(redisClient, logger)
	service := bootstrap.BuildContactService(cfg, leadMetrics, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ContactHandler:     contact.NewHandler(service, limiter, leadMetrics, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	service.Wait()

	logger.Info("server stopped")
}

// setupMetrics builds a private registry so /metrics only exposes this
// service's collectors plus the Go runtime.
func setupMetrics() (http.Handler, *metrics.LeadMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewLeadMetrics(reg)
}
