package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/service/dashboard"
	"github.com/kutoka/fairoils-bi/internal/service/insights"
)

// DashboardHandler serves the computed dashboard and written insights.
type DashboardHandler struct {
	dashboards dashboard.Builder
	provider   insights.SummaryProvider
	logger     *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(dashboards dashboard.Builder, provider insights.SummaryProvider, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{dashboards: dashboards, provider: provider, logger: logger}
}

type insightsRequest struct {
	Prompt string `json:"prompt"`
	Today  string `json:"today"`
}

// Dashboard builds the dashboard for ?today=YYYY-MM-DD, or the current day.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	today, ok := h.today(c, c.Query("today"))
	if !ok {
		return
	}

	dash, err := h.dashboards.Build(c.Request.Context(), today)
	if err != nil {
		h.logger.Error("failed to build dashboard", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Insights answers a prompt about the current dashboard.
func (h *DashboardHandler) Insights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	today, ok := h.today(c, req.Today)
	if !ok {
		return
	}

	dash, err := h.dashboards.Build(c.Request.Context(), today)
	if err != nil {
		h.logger.Error("failed to build dashboard for insights", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}

	summary, err := h.provider.Summarize(c.Request.Context(), req.Prompt, dash)
	switch {
	case errors.Is(err, insights.ErrEmptyPrompt):
		respondError(c, http.StatusBadRequest, "Prompt is required", err)
	case err != nil:
		h.logger.Error("failed to generate insights", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to generate insights", err)
	default:
		c.JSON(http.StatusOK, summary)
	}
}

func (h *DashboardHandler) today(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return h.dashboards.Today(), true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "today must be a YYYY-MM-DD date", err)
		return time.Time{}, false
	}
	return d.Time, true
}
