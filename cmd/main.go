package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/internal/api"
	"storefront-service/internal/auth"
	"storefront-service/internal/config"
	"storefront-service/internal/logging"
	"storefront-service/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
)

const (
	defaultAppName = "StorefrontService" // App name for logger and health checks
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found or error loading, relying on system environment variables.")
	}

	// --- Configuration Loading ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	logger := logging.New(cfg, defaultAppName)
	logger.Info().Str("app_env", cfg.AppEnv).Str("log_level", cfg.LogLevel).Msg("Starting service...")

	// --- Database Connection ---
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := store.OpenDB(startupCtx, cfg.Postgres)
	if err != nil {
		cancelStartup()
		logger.Fatal().Err(err).Msg("Database unavailable")
	}
	logger.Info().Msg("Database connection established and configured successfully.")
	dbStore := store.NewPostgresStore(db, logger)

	if err := prepareDatabase(startupCtx, cfg, dbStore); err != nil {
		cancelStartup()
		dbStore.Close()
		logger.Fatal().Err(err).Msg("Database preparation failed")
	}
	cancelStartup()

	// --- Initialize API Handlers ---
	healthReporter := api.NewHealthReporter(dbStore, defaultAppName, logger)
	httpAPIHandler := api.NewHTTPHandler(dbStore, healthReporter, logger)

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, cfg, logger)
	httpAPIHandler.RegisterRoutes(httpRouter, api.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Info().Str("port", cfg.HttpServer.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
		}
		logger.Info().Msg("HTTP server has stopped.")
	}()

	// --- Setup & Start gRPC Server ---
	grpcServer := grpc.NewServer()
	healthReporter.Register(grpcServer)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		logger.Fatal().Err(err).Str("port", cfg.GrpcServer.Port).Msg("Failed to listen for gRPC")
	}

	go func() {
		logger.Info().Str("port", cfg.GrpcServer.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatal().Err(err).Msg("gRPC server Serve error")
		}
		logger.Info().Msg("gRPC server has stopped.")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(logger, httpServer, grpcServer, healthReporter, dbStore, shutdownComplete)

	<-shutdownComplete // Block until graceful shutdown is complete
	logger.Info().Msg("Service shutdown sequence finished.")
}

// prepareDatabase creates the schema and, when enabled, loads the fixtures.
// It runs before any listener is opened.
func prepareDatabase(ctx context.Context, cfg *config.Config, dbStore *store.PostgresStore) error {
	if err := dbStore.EnsureSchema(ctx); err != nil {
		return err
	}
	if !cfg.Seed.OnStart {
		return nil
	}
	hash, err := auth.HashPassword(cfg.Seed.UserPassword)
	if err != nil {
		return err
	}
	return dbStore.Seed(ctx, hash)
}

func setupBaseMiddleware(router *chi.Mux, cfg *config.Config, logger zerolog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second)) // Default timeout for requests
	router.Use(api.NewCORS(cfg.CORS).Handler)
	logger.Info().Strs("cors_origins", cfg.CORS.AllowedOrigins).Msg("Base HTTP middleware registered.")
}

func waitForShutdown(
	logger zerolog.Logger,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	healthReporter *api.HealthReporter,
	dbStore *store.PostgresStore,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	receivedSignal := <-sigChan
	logger.Info().Str("signal", receivedSignal.String()).Msg("Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Health watchers see NOT_SERVING before the listeners go away.
	healthReporter.Shutdown()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		logger.Info().Msg("HTTP server gracefully shut down.")
	}

	select {
	case <-stoppedGrpc:
		logger.Info().Msg("gRPC server gracefully shut down.")
	case <-shutdownCtx.Done():
		logger.Warn().Err(shutdownCtx.Err()).Msg("gRPC server graceful shutdown timed out, forcing stop")
		grpcServer.Stop()
	}

	if err := dbStore.Close(); err != nil {
		logger.Warn().Err(err).Msg("Error closing database connection")
	}
}
