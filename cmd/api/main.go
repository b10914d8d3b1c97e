// Package main is the entry point for the feature API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/featureserv/internal/config"
	"github.com/pkordes/featureserv/internal/geometry"
	"github.com/pkordes/featureserv/internal/handler"
	"github.com/pkordes/featureserv/internal/middleware"
	"github.com/pkordes/featureserv/internal/repo"
	"github.com/pkordes/featureserv/internal/service"
	"github.com/pkordes/featureserv/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, ferr.Message)
			os.Exit(0)
		}
		// Use the default logger before the configured one exists.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- API document -----------------------------------------------------
	if _, err := spec.Load(context.Background()); err != nil {
		slog.Error("invalid embedded OpenAPI document", "error", err)
		os.Exit(1)
	}

	// --- Feature store ----------------------------------------------------
	// The store is required by every feature endpoint; refuse to start without it.
	store, err := repo.Load(cfg.DataFile)
	if err != nil {
		slog.Error("failed to load feature data", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}
	all, err := store.List(context.Background())
	if err != nil {
		slog.Error("failed to list feature data", "path", cfg.DataFile, "error", err)
		os.Exit(1)
	}
	slog.Info("feature data loaded", "path", cfg.DataFile, "features", len(all.Features))

	// --- Services ---------------------------------------------------------
	features := service.NewFeatureService(store)
	buffer := service.NewBufferService(geometry.NewEngine(), cfg.BufferWorkers)
	srv := handler.NewServer(features, buffer, cfg.BaseURL, logger)

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Metrics →
	// Recoverer → CORS → MaxBodySize.
	// Recoverer sits inside Logger and Metrics so a panic is still logged and
	// counted as a 500.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Buffering large collections is CPU bound, so the write timeout is
	// longer than the read timeout.
	httpSrv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "base_url", cfg.BaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
