// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/barmetrics/backend-go/internal/api"
	"github.com/barmetrics/backend-go/internal/cache"
	"github.com/barmetrics/backend-go/internal/cmv"
	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/export"
	"github.com/barmetrics/backend-go/internal/repository/postgres"
	"github.com/barmetrics/backend-go/internal/service"
	"github.com/barmetrics/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	domain.ValidateRules()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	venueRepo := postgres.NewVenueRepository(db.DB)
	salesRepo := postgres.NewSalesRepository(db.DB, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	purchaseRepo := postgres.NewPurchaseRepository(db.DB, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	inventoryRepo := postgres.NewInventoryRepository(db.DB, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	weeklyRepo := postgres.NewWeeklyRepository(db.DB)

	weeklyCache, err := cache.NewWeeklyCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("weekly cache unavailable, continuing without it")
		weeklyCache = cache.NewNoopWeeklyCache()
	}

	var exporter export.RunExporter
	if minioExporter, err := export.NewMinioExporter(cfg.Export); err != nil {
		logger.Log.Warn().Err(err).Msg("run exporter unavailable, continuing without it")
	} else if minioExporter != nil {
		exporter = minioExporter
	}

	engine := cmv.NewEngine(venueRepo, weeklyRepo, inventoryRepo, salesRepo, purchaseRepo, cfg.CMV)
	cmvService := service.NewCMVService(engine, weeklyRepo, weeklyCache, exporter)

	router := api.NewRouter(&api.Services{CMVService: cmvService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
