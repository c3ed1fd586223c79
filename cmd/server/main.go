package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/dataset"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/scheduler"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Holdings-Dashboard-Backend/internal/sheets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Create repositories
	snapshotRepo := repository.NewSnapshotRepository(db)
	sourceConfigRepo := repository.NewSourceConfigRepository(db)

	// Create the dataset loader around the sheet client
	sheetClient := sheets.NewSheetClient()
	loader := dataset.NewLoader(sheetClient, cfg.Cache.TTL, snapshotRepo)

	// Create services
	systemService := service.NewSystemService(db)
	dashboardService := service.NewDashboardService()
	sourceConfigService := service.NewSourceConfigService(sourceConfigRepo, cfg.Source, loader.Invalidate)
	datasetService := service.NewDatasetService(loader, sourceConfigService, snapshotRepo)

	// Background dataset refresh keeps the cache warm
	jobScheduler := scheduler.New()
	if err := jobScheduler.AddJob(cfg.Cache.RefreshSchedule, scheduler.NewDatasetRefreshJob(datasetService)); err != nil {
		log.Fatalf("Failed to schedule dataset refresh: %v", err)
	}
	jobScheduler.Start()
	defer jobScheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, datasetService, dashboardService, sourceConfigService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
