package sheets

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Handler exposes the sync over HTTP for the scheduler that triggers it.
type Handler struct {
	ingestService *IngestService
}

func NewHandler(ingestService *IngestService) *Handler {
	return &Handler{ingestService: ingestService}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/sheets/ingest", h.Sync).Methods("POST")
	router.HandleFunc("/health", h.Health).Methods("GET")
}

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.ingestService.Ingest(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("sync failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"result": result,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
