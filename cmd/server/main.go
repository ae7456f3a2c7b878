package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvcarvalho/pdf-podcast-api/internal/config"
	"github.com/mvcarvalho/pdf-podcast-api/internal/router"
	"github.com/mvcarvalho/pdf-podcast-api/internal/services"
	"github.com/mvcarvalho/pdf-podcast-api/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Initialize podcast service (Gemini client + local speech engine)
	podcastService, err := services.NewService(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize podcast service", "error", err)
	}
	defer podcastService.Close()

	// Setup HTTP router
	handler := router.NewRouter(podcastService, cfg, logger)

	// Create HTTP server. Write timeout is generous: a full run blocks on
	// remote generation and serial speech synthesis.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
