package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/repository/warehouse"
	"github.com/kutoka/fairoils-bi/internal/service/records"
)

// RecordsService is what the collection endpoints need from the records service.
type RecordsService interface {
	ListFactories(ctx context.Context) ([]models.Factory, error)
	ListProductionRecords(ctx context.Context) ([]models.ProductionRecord, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)
	ListSalesOrders(ctx context.Context) ([]models.SalesOrder, error)

	CreateFactory(ctx context.Context, in models.FactoryInput) (models.Factory, error)
	CreateProductionRecord(ctx context.Context, in models.ProductionInput) (models.ProductionRecord, error)
	CreatePurchaseOrder(ctx context.Context, in models.PurchaseOrderInput) (models.PurchaseOrder, error)
	CreateSalesOrder(ctx context.Context, in models.SalesOrderInput) (models.SalesOrder, error)
	RecordActuals(ctx context.Context, in models.ProductionActualsInput) (models.ProductionRecord, error)
}

// RecordsHandler serves the four planning collections.
type RecordsHandler struct {
	svc    RecordsService
	logger *zap.Logger
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(svc RecordsService, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsHandler{svc: svc, logger: logger}
}

func (h *RecordsHandler) ListFactories(c *gin.Context) {
	items, err := h.svc.ListFactories(c.Request.Context())
	h.respondList(c, "factories", items, err)
}

func (h *RecordsHandler) ListProductionData(c *gin.Context) {
	items, err := h.svc.ListProductionRecords(c.Request.Context())
	h.respondList(c, "production data", items, err)
}

func (h *RecordsHandler) ListPurchaseOrders(c *gin.Context) {
	items, err := h.svc.ListPurchaseOrders(c.Request.Context())
	h.respondList(c, "purchase orders", items, err)
}

func (h *RecordsHandler) ListSalesOrders(c *gin.Context) {
	items, err := h.svc.ListSalesOrders(c.Request.Context())
	h.respondList(c, "sales orders", items, err)
}

func (h *RecordsHandler) respondList(c *gin.Context, what string, items any, err error) {
	if err != nil {
		h.logger.Error("failed to fetch "+what, zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to fetch "+what, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *RecordsHandler) CreateFactory(c *gin.Context) {
	var in models.FactoryInput
	if !h.bind(c, &in) {
		return
	}

	factory, err := h.svc.CreateFactory(c.Request.Context(), in)
	if err != nil {
		h.logCreateError("factory", err)
		respondCreateError(c, "factory", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Factory created successfully", "factory": factory})
}

func (h *RecordsHandler) CreateProductionData(c *gin.Context) {
	var in models.ProductionInput
	if !h.bind(c, &in) {
		return
	}

	record, err := h.svc.CreateProductionRecord(c.Request.Context(), in)
	if err != nil {
		h.logCreateError("production data", err)
		respondCreateError(c, "production data", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Production data created successfully", "data": record})
}

// UpdateProductionData records actuals against an existing forecast.
func (h *RecordsHandler) UpdateProductionData(c *gin.Context) {
	var in models.ProductionActualsInput
	if !h.bind(c, &in) {
		return
	}

	record, err := h.svc.RecordActuals(c.Request.Context(), in)
	var verr *models.ValidationError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Production data updated successfully", "data": record})
	case errors.Is(err, records.ErrMissingID):
		respondError(c, http.StatusBadRequest, "Record ID is required for an update", nil)
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "Invalid actual values", verr)
	case errors.Is(err, warehouse.ErrNotFound):
		respondError(c, http.StatusNotFound, "Production record not found", err)
	case errors.Is(err, warehouse.ErrRecordBusy):
		respondError(c, http.StatusConflict, "Production record was created recently and cannot be updated yet, retry later", err)
	default:
		h.logger.Error("failed to update production data", zap.String("id", in.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to update production data", err)
	}
}

func (h *RecordsHandler) CreatePurchaseOrder(c *gin.Context) {
	var in models.PurchaseOrderInput
	if !h.bind(c, &in) {
		return
	}

	order, err := h.svc.CreatePurchaseOrder(c.Request.Context(), in)
	if err != nil {
		h.logCreateError("purchase order", err)
		respondCreateError(c, "purchase order", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Purchase order created successfully", "order": order})
}

func (h *RecordsHandler) CreateSalesOrder(c *gin.Context) {
	var in models.SalesOrderInput
	if !h.bind(c, &in) {
		return
	}

	order, err := h.svc.CreateSalesOrder(c.Request.Context(), in)
	if err != nil {
		h.logCreateError("sales order", err)
		respondCreateError(c, "sales order", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sales order created successfully", "order": order})
}

// MockData serves the demo collections regardless of the store driver.
func (h *RecordsHandler) MockData(c *gin.Context) {
	c.JSON(http.StatusOK, warehouse.Fixtures())
}

func (h *RecordsHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func (h *RecordsHandler) logCreateError(entity string, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		h.logger.Info("rejected "+entity, zap.Strings("missing", verr.Missing), zap.Strings("invalid", verr.Invalid))
		return
	}
	h.logger.Error("failed to create "+entity, zap.Error(err))
}
