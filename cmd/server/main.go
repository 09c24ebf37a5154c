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

	"github.com/gin-gonic/gin"

	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/api"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/backend"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/config"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/generator"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/service"
	"github.com/xxxnatinhoxxx-dotcom/titan-os-2/internal/storage"
)

func main() {
	log.Println("Starting Titan OS Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Backend Context ---
	// Remote document store when configured and reachable, local file
	// store otherwise. The application comes up either way.
	be, err := backend.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize persistence backend: %v", err)
	}
	defer func() {
		if err := be.Close(); err != nil {
			log.Printf("ERROR: Failed to close backend: %v", err)
		}
	}()
	if be.Offline {
		log.Println("Persistence backend: local file store.")
	} else {
		log.Println("Persistence backend: MongoDB.")
	}

	// --- Plan Generator ---
	gen, err := generator.NewGeminiGenerator(cfg.Gemini)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize plan generator: %v", err)
	}

	// --- Cover Storage (optional) ---
	var covers storage.CoverStorage
	if cfg.S3.BucketName != "" {
		covers, err = storage.NewS3CoverStorage(cfg.S3)
		if err != nil {
			log.Printf("WARN: Cover storage unavailable: %v", err)
			covers = nil
		}
	} else {
		log.Println("No cover bucket configured; day sheets carry no cover URLs.")
	}

	// --- Services & Sessions ---
	authService := service.NewAuthService(be.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	sessions := api.NewSessionManager(be, gen)
	defer sessions.Shutdown()

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, sessions, be, covers)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second, // generator calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
