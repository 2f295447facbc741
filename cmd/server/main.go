/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the benefits pricing server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load config from environment (.env supported), then apply flags
  2. Build the zerolog logger
  3. Initialize SQLite store
  4. Register Prometheus metrics
  5. Create API handler, optionally seed a demo scenario
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override environment):
  -port    HTTP server port (env PORT, default: 8080)
  -db      SQLite database path (env DB_PATH, default: pricing.db)
           Use ":memory:" for in-memory database
  -seed    Scenario to load at startup (env SEED_ON_START loads
           standard-catalog)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server -db=":memory:" -seed=standard-catalog
  LOG_FORMAT=console LOG_LEVEL=debug ./server -port=3000

SEE ALSO:
  - config/config.go: Environment keys
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/benefits-pricing/api"
	"github.com/warp/benefits-pricing/config"
	"github.com/warp/benefits-pricing/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger config comes from cfg; fall back to defaults
		fallback := api.NewLogger("json", "info")
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	// Flags
	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seed := flag.String("seed", "", "scenario to load at startup")
	flag.Parse()

	cfg.Port = *port
	cfg.DBPath = *dbPath
	if *seed == "" && cfg.SeedOnStart {
		*seed = "standard-catalog"
	}

	logger := api.NewLogger(cfg.LogFormat, cfg.LogLevel)

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	metrics := api.NewMetrics(cfg.MetricsNamespace, nil)
	handler := api.NewHandler(store, metrics, logger)

	if *seed != "" {
		if err := handler.Seed(context.Background(), *seed); err != nil {
			logger.Fatal().Err(err).Str("scenario", *seed).Msg("failed to seed database")
		}
	}

	router := api.NewRouter(handler, api.RouterOptions{AllowedOrigins: cfg.CORSAllowedOrigins})

	server := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("db", cfg.DBPath).
			Str("metrics", "/metrics").
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info().Str("signal", sig.String()).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server stopped")
}
