package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bobarin/podcaster/internal/api"
	"github.com/bobarin/podcaster/internal/app"
	"github.com/bobarin/podcaster/internal/config"
	"github.com/bobarin/podcaster/internal/queue"
)

func main() {
	log.Println("Starting Podcaster API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build the pipeline (fails fast on a missing transition asset)
	pipeline, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	if err := pipeline.FFmpeg.CheckAvailable(); err != nil {
		log.Printf("WARNING: %v (podcast merges will fail)", err)
	}

	// Connect to Redis queue
	q, err := queue.New(cfg.RedisURL, time.Duration(cfg.JobStatusTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()
	log.Println("Connected to Redis queue")

	// Create API handler
	handler := api.NewHandler(q, pipeline.Fetcher, pipeline.Cleaner, pipeline.Assembler)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set, API is unprotected (dev mode)")
	}

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start worker if enabled
	var workerCancel context.CancelFunc
	workerDone := make(chan struct{})
	if cfg.WorkerEnabled {
		log.Println("Worker enabled, starting background processing...")

		w := pipeline.NewWorker(q)

		var workerCtx context.Context
		workerCtx, workerCancel = context.WithCancel(context.Background())
		go func() {
			defer close(workerDone)
			if err := w.Start(workerCtx, cfg.MaxConcurrentJobs); err != nil {
				log.Printf("Worker stopped: %v", err)
			}
		}()
	} else {
		close(workerDone)
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Stop consumers; a running job is cancelled through its context
	if workerCancel != nil {
		workerCancel()
	}
	select {
	case <-workerDone:
	case <-ctx.Done():
		log.Println("Worker did not stop before the shutdown deadline")
	}

	log.Println("Server exited")
}
