package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/barmetrics/backend-go/internal/cmv"
	"github.com/barmetrics/backend-go/internal/domain"
	"github.com/barmetrics/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CMVHandler struct {
	service *service.CMVService
}

func NewCMVHandler(service *service.CMVService) *CMVHandler {
	return &CMVHandler{service: service}
}

// runWeeklyRequest is the trigger payload. Both fields are optional: an
// empty body computes last week for every active venue.
type runWeeklyRequest struct {
	WeekOffset *int  `json:"offsetSemanas"`
	VenueID    int64 `json:"bar_id"`
}

// RunWeekly triggers a batch computation. Per-venue failures still answer
// 200 with the failures listed in resultados_por_bar; only a run that could
// not start at all answers 500.
func (h *CMVHandler) RunWeekly(c *gin.Context) {
	var req runWeeklyRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	summary, err := h.service.RunWeekly(c.Request.Context(), cmv.RunRequest{
		WeekOffset: req.WeekOffset,
		VenueID:    req.VenueID,
	})
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListWeekly reads persisted weekly records, optionally filtered by bar_id,
// ano and semana query parameters.
func (h *CMVHandler) ListWeekly(c *gin.Context) {
	var filter domain.WeeklyFilter

	if raw := strings.TrimSpace(c.Query("bar_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid bar_id")
			return
		}
		filter.VenueID = id
	}
	if raw := strings.TrimSpace(c.Query("ano")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid ano")
			return
		}
		filter.Year = year
	}
	if raw := strings.TrimSpace(c.Query("semana")); raw != "" {
		week, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid semana")
			return
		}
		filter.Week = week
	}

	records, err := h.service.ListWeekly(c.Request.Context(), filter)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}

// Health answers liveness probes.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"success": false, "error": message})
}
