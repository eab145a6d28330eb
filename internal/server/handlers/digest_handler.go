package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/service/reporting"
	service "github.com/kutoka/fairoils-bi/internal/service/whatsapp"
)

// SnapshotLister reads the digest history.
type SnapshotLister interface {
	ListSnapshots(ctx context.Context, limit int) ([]models.DashboardSnapshot, error)
}

// ScorecardLister reads the scorecard rows kept in the spreadsheet.
type ScorecardLister interface {
	History(ctx context.Context) ([]models.DashboardSnapshot, error)
}

// Digester runs a digest on demand.
type Digester interface {
	RunDigest(ctx context.Context) (reporting.Digest, error)
}

// DigestHandler exposes the weekly digest, its history and outbound messaging.
// Snapshots, scorecards and messaging are optional; nil disables their
// endpoints with 503.
type DigestHandler struct {
	digester   Digester
	snapshots  SnapshotLister
	scorecards ScorecardLister
	messaging  service.MessagingService
	logger     *zap.Logger
}

// NewDigestHandler constructs the HTTP handler adapter.
func NewDigestHandler(digester Digester, snapshots SnapshotLister, scorecards ScorecardLister, messaging service.MessagingService, logger *zap.Logger) *DigestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestHandler{digester: digester, snapshots: snapshots, scorecards: scorecards, messaging: messaging, logger: logger}
}

// RunDigest builds and delivers a digest immediately.
func (h *DigestHandler) RunDigest(c *gin.Context) {
	digest, err := h.digester.RunDigest(c.Request.Context())
	if err != nil {
		h.logger.Error("manual digest failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to run digest", err)
		return
	}
	c.JSON(http.StatusOK, digest)
}

// Snapshots lists past digests, newest first.
func (h *DigestHandler) Snapshots(c *gin.Context) {
	if h.snapshots == nil {
		respondError(c, http.StatusServiceUnavailable, "Snapshot history is not configured", nil)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	items, err := h.snapshots.ListSnapshots(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to fetch snapshots", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch snapshots", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Scorecards lists the scorecard rows of the history sheet in sheet order.
func (h *DigestHandler) Scorecards(c *gin.Context) {
	if h.scorecards == nil {
		respondError(c, http.StatusServiceUnavailable, "Scorecard sheet is not configured", nil)
		return
	}

	items, err := h.scorecards.History(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch scorecards", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch scorecards", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SendMessage pushes a manual outbound notification.
func (h *DigestHandler) SendMessage(c *gin.Context) {
	if h.messaging == nil {
		respondError(c, http.StatusServiceUnavailable, "Messaging is not configured", nil)
		return
	}

	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.messaging.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("failed sending outbound", zap.Error(err))
		respondError(c, http.StatusBadGateway, "Unable to send message", err)
		return
	}

	c.Status(http.StatusAccepted)
}
