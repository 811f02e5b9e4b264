// Package main is the entry point for the Trip Explorer API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/trip-explorer/internal/auth"
	"github.com/pkordes/trip-explorer/internal/config"
	"github.com/pkordes/trip-explorer/internal/countries"
	"github.com/pkordes/trip-explorer/internal/handler"
	"github.com/pkordes/trip-explorer/internal/metrics"
	"github.com/pkordes/trip-explorer/internal/middleware"
	"github.com/pkordes/trip-explorer/internal/repo"
	"github.com/pkordes/trip-explorer/internal/service"
	"github.com/pkordes/trip-explorer/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
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

	// --- Store ------------------------------------------------------------
	// One handle for the whole process; every request shares it.
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := repo.Open(startCtx, cfg)
	cancelStart()
	if err != nil {
		slog.Error("failed to open trip store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	slog.Info("trip store ready", "driver", cfg.StoreDriver)

	// --- Services ---------------------------------------------------------
	recorder := metrics.New()
	guard := auth.NewJWTGuard(cfg.SessionSecret, cfg.SessionCookie)

	trips := service.NewTripService(store.Trips, service.WithObserver(recorder))
	export := service.NewExportService(store.Trips)
	picker := countries.NewPicker(countries.NewClient(cfg.CountriesURL, cfg.CountriesCacheTTL))

	var tokens handler.TokenIssuer
	if cfg.DevLogin {
		slog.Warn("dev login enabled: POST /auth/dev-token issues sessions for any email")
		tokens = guard
	}

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID, RealIP, Logger, Metrics, CORS, MaxBodySize,
	// then Recoverer innermost.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(recorder.Middleware)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Use(chimiddleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", recorder.Handler())
	r.Method(http.MethodGet, "/openapi.yaml", spec.Handler())

	// Registers every API operation on r, with the session guard in front of
	// the secured ones.
	handler.NewRouter(r, handler.NewServer(trips, export, picker, tokens), guard)

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-stop:
		slog.Info("shutting down server")
	case err := <-serveErr:
		slog.Error("server error", "error", err)
		exitCode = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		exitCode = 1
	}
	if err := store.Close(ctx); err != nil {
		slog.Error("store close error", "error", err)
		exitCode = 1
	}
	cancel()
	slog.Info("server stopped")
	os.Exit(exitCode)
}
