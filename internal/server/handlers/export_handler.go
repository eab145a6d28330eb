package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/service/export"
)

// Exporter renders one collection as a workbook.
type Exporter interface {
	Export(ctx context.Context, entity string) ([]byte, string, error)
}

// ExportHandler serves XLSX downloads.
type ExportHandler struct {
	exporter Exporter
	logger   *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(exporter Exporter, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exporter: exporter, logger: logger}
}

// Export streams /api/export/:entity as an attachment.
func (h *ExportHandler) Export(c *gin.Context) {
	entity := c.Param("entity")

	content, filename, err := h.exporter.Export(c.Request.Context(), entity)
	switch {
	case errors.Is(err, export.ErrUnknownEntity):
		respondError(c, http.StatusNotFound, fmt.Sprintf("Unknown export %q", entity), err)
		return
	case err != nil:
		h.logger.Error("failed to export", zap.String("entity", entity), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to export "+entity, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, content)
}
