// Package main is the entry point for the trip planner API server.
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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/planweave/planweave/internal/config"
	"github.com/planweave/planweave/internal/geo"
	"github.com/planweave/planweave/internal/handler"
	"github.com/planweave/planweave/internal/llm"
	"github.com/planweave/planweave/internal/middleware"
	"github.com/planweave/planweave/internal/repo"
	"github.com/planweave/planweave/internal/service"
	"github.com/planweave/planweave/internal/voice"
)

// maxBodyBytes caps incoming request bodies. Plans round-trip through POST
// /trips, so the limit has to accommodate a full month-long itinerary.
const maxBodyBytes = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
	// .env is a local development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	// --- Collaborators ----------------------------------------------------
	var chat *llm.Client
	if cfg.LLM.Configured() {
		chat = llm.NewClient(cfg.LLM)
		slog.Info("model endpoint configured", "provider", cfg.LLM.Name, "model", cfg.LLM.Model)
	} else {
		slog.Warn("no model endpoint configured; plan generation disabled, voice parsing uses heuristics")
	}

	geoClient := geo.NewClient(geo.Config{
		GeocodeURL: cfg.GeocodeURL,
		RouteURL:   cfg.RouteURL,
		APIKey:     cfg.GeoAPIKey,
	}, geo.NewCache())

	// --- Services ---------------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	expenseRepo := repo.NewExpenseRepo(pool)

	// A nil *llm.Client must stay a nil interface value downstream, so the
	// planner and voice extractor can detect the unconfigured case.
	var plannerChat service.ChatClient
	var voiceChat voice.ChatClient
	if chat != nil {
		plannerChat = chat
		voiceChat = chat
	}

	server := handler.NewServer(
		service.NewPlannerService(plannerChat),
		service.NewVoiceService(voice.NewExtractor(voiceChat)),
		service.NewTripService(tripRepo),
		service.NewExpenseService(tripRepo, expenseRepo),
		geoClient,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", server.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	// WriteTimeout is generous because plan generation holds the connection
	// open for the full model round trip.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
