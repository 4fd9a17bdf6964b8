/*
Package main is the entry point for the Termo Arena server.

It is responsible for loading configuration, initializing the global logging
system, loading the word catalog, wiring the session layer (registry,
connection manager, controller), setting up the HTTP server, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM) to ensure a
smooth shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"termoarena/internal/app/session"
	"termoarena/internal/app/words"
	"termoarena/internal/configs"
	"termoarena/internal/handler"
	"termoarena/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("room_ttl", cfg.RoomTTL).
		Msg("Configuration loaded successfully")

	// Load the word catalog
	catalog, err := words.Load(cfg.WordFile)
	if err != nil {
		logx.Fatal(err, "Failed to load word catalog")
	}
	logx.Info("Word catalog loaded", "words", catalog.Size())

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire the session layer
	conns := session.NewConnectionManager()
	registry := session.NewRegistry(cfg.RoomTTL, conns)
	controller := session.NewController(registry, conns, catalog)

	deps := &handler.AppDeps{
		Registry:   registry,
		Controller: controller,
		Catalog:    catalog,
		Config:     cfg,
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Termo Arena Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	registry.Shutdown()

	logx.Info("Server gracefully stopped.")
}
