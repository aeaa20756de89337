package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keikodev/keiko-economy/internal/api"
	"github.com/keikodev/keiko-economy/internal/config"
	"github.com/keikodev/keiko-economy/internal/docstore"
	"github.com/keikodev/keiko-economy/internal/events"
	"github.com/keikodev/keiko-economy/internal/repository"
	"github.com/keikodev/keiko-economy/internal/repository/postgres"
	"github.com/keikodev/keiko-economy/internal/repository/raven"
	"github.com/keikodev/keiko-economy/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Initialize transaction feed hub
	hub := events.NewHub()
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg)

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	hub.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// buildRepositories selects the storage backend: DATABASE_URL wins,
// then STORE_URL, then the in-memory store for local development.
func buildRepositories(cfg *config.Config) (*repository.Repositories, error) {
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Printf("Using postgres backend")
		return postgres.NewRepositories(db), nil
	}

	if cfg.StoreURL != "" {
		baseURL := cfg.StoreURL + "/databases/" + cfg.StoreDatabase
		store := docstore.NewHTTPStore(baseURL, cfg.StoreToken)
		log.Printf("Using document store backend at %s", cfg.StoreURL)
		return raven.NewRepositories(store), nil
	}

	log.Printf("No storage configured, using in-memory store")
	return raven.NewRepositories(docstore.NewMemoryStore()), nil
}
