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
	"github.com/joho/godotenv"

	"tabclass/adapters/excel"
	"tabclass/adapters/memory"
	"tabclass/adapters/postgres"
	"tabclass/adapters/postgres/migrations"
	"tabclass/app"
	"tabclass/internal"
	"tabclass/internal/api"
	"tabclass/internal/config"
	"tabclass/internal/threshold"
	"tabclass/ports"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reports ports.ReportRepository = memory.NewReportRepository()
	if appConfig.Database.Enabled() {
		db, err := postgres.Open(ctx, appConfig.Database)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		applied, err := migrations.NewMigrator(db.DB).Up(ctx)
		if err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
		for _, version := range applied {
			logger.Info("applied migration %s", version)
		}
		reports = postgres.NewReportRepository(db)
		logger.Info("reports stored in PostgreSQL")
	} else {
		logger.Info("DATABASE_URL not set, reports kept in memory")
	}

	loaderConfig := excel.DefaultLoaderConfig()
	loader := excel.NewLoader(loaderConfig, logger)
	preparation := app.NewPreparationService(loader, appConfig.Pipeline, logger)
	// Training happens outside this service; clients post scored partitions
	// to /api/reports and the evaluation service tunes and stores them.
	evaluation := app.NewEvaluationService(nil, reports, threshold.NewTuner(appConfig.Pipeline.TunerWorkers), logger)

	handler := api.NewHandler(preparation, evaluation, loader, appConfig.Server.MaxUploadMB, logger)
	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting API server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
