// cmd/sync/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/barmetrics/backend-go/internal/config"
	"github.com/barmetrics/backend-go/internal/repository/postgres"
	"github.com/barmetrics/backend-go/internal/sheets"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	if cfg.Sheets.CredentialsJSON == "" || cfg.Sheets.SpreadsheetID == "" {
		log.Fatal("SHEETS_CREDENTIALS_JSON and SHEETS_SPREADSHEET_ID must be set")
	}

	sheetsService, err := sheets.NewService(context.Background(), cfg.Sheets.CredentialsJSON, cfg.Sheets.SpreadsheetID)
	if err != nil {
		log.Fatalf("Failed to initialize sheets service: %v", err)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	inventoryRepo := postgres.NewInventoryRepository(db.DB, cfg.CMV.PageSize, cfg.CMV.MaxPages)
	ingestService := sheets.NewIngestService(sheetsService, inventoryRepo, cfg.Sheets.ReadRange)

	r := mux.NewRouter()
	handler := sheets.NewHandler(ingestService)
	handler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Sync server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
