/*
main.go - HTTP server entry point

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (defaults < TOML < .env/environment < flags)
  3. Build the zap logger
  4. Open the SQLite store and wrap it in an Inventory
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  TOML config file (optional)
  -env     .env file (default: .env, ignored if absent)
  -port    HTTP server port (overrides config)
  -db      SQLite database path (overrides config)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/room-inventory/api"
	"github.com/warp/room-inventory/config"
	"github.com/warp/room-inventory/logger"
	"github.com/warp/room-inventory/rooms"
	"github.com/warp/room-inventory/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "", "TOML config file")
	envFile := flag.String("env", ".env", "dotenv file")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	flag.Parse()

	cfg := config.New()
	if *configPath != "" {
		if err := cfg.Load(*configPath); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(*envFile); err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "room-inventory")
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path, sqlite.WithLogger(log.Named("sqlite")))
	if err != nil {
		log.Error("failed to initialize database", zap.String("path", cfg.Database.Path), zap.Error(err))
		return err
	}
	inv := rooms.NewInventory(store, log.Named("inventory"))
	defer inv.Close()

	handler := api.NewHandler(inv, log.Named("api"))
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal or a listener failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err, ok := <-serveErr:
		if ok {
			log.Error("server failed", zap.Error(err))
			return err
		}
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("server stopped")
	return nil
}
