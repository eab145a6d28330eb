// Package records creates and lists the planning collections. Create
// operations validate the payload, assign an id and fill defaults before the
// record reaches storage.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/metrics"
	"github.com/kutoka/fairoils-bi/internal/repository/warehouse"
)

// ErrMissingID is returned when an update names no record.
var ErrMissingID = errors.New("record id is required")

// Service wraps a warehouse repository with validation and defaults.
type Service struct {
	repo   warehouse.Repository
	logger *zap.Logger
	newID  func() string
}

// NewService wires a new records service instance.
func NewService(repo warehouse.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		logger: logger,
		newID:  func() string { return uuid.NewString() },
	}
}

func (s *Service) ListFactories(ctx context.Context) ([]models.Factory, error) {
	return s.repo.ListFactories(ctx)
}

func (s *Service) ListProductionRecords(ctx context.Context) ([]models.ProductionRecord, error) {
	return s.repo.ListProductionRecords(ctx)
}

func (s *Service) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	return s.repo.ListPurchaseOrders(ctx)
}

func (s *Service) ListSalesOrders(ctx context.Context) ([]models.SalesOrder, error) {
	return s.repo.ListSalesOrders(ctx)
}

// CreateFactory stores a new factory. Status defaults to Active.
func (s *Service) CreateFactory(ctx context.Context, in models.FactoryInput) (models.Factory, error) {
	if err := in.Validate(); err != nil {
		return models.Factory{}, err
	}

	factory := models.Factory{
		ID:            s.newID(),
		Name:          strings.TrimSpace(in.Name),
		Location:      strings.TrimSpace(in.Location),
		DailyCapacity: in.DailyCapacity,
		Status:        in.Status,
	}
	if factory.Status == "" {
		factory.Status = models.FactoryActive
	}

	if err := s.repo.InsertFactory(ctx, factory); err != nil {
		return models.Factory{}, fmt.Errorf("insert factory: %w", err)
	}

	s.logger.Info("factory created", zap.String("id", factory.ID), zap.String("name", factory.Name))
	return factory, nil
}

// CreateProductionRecord stores a new forecast. Actual values always start
// empty. An omitted week or year is taken from the ISO week of the start date.
func (s *Service) CreateProductionRecord(ctx context.Context, in models.ProductionInput) (models.ProductionRecord, error) {
	if err := in.Validate(); err != nil {
		return models.ProductionRecord{}, err
	}

	record := models.ProductionRecord{
		ID:           s.newID(),
		FactoryID:    strings.TrimSpace(in.FactoryID),
		Product:      strings.TrimSpace(in.Product),
		Week:         in.Week,
		Year:         in.Year,
		Qty:          in.Qty,
		RecoveryRate: in.RecoveryRate,
		ActiveDays:   in.ActiveDays,
		StartDate:    validDate(in.StartDate),
	}
	if record.StartDate != nil {
		year, week := metrics.ComputeWeek(record.StartDate.Time)
		if record.Week == 0 {
			record.Week = week
		}
		if record.Year == 0 {
			record.Year = year
		}
	}

	if err := s.repo.InsertProductionRecord(ctx, record); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("insert production record: %w", err)
	}

	s.logger.Info("production record created",
		zap.String("id", record.ID),
		zap.String("factory_id", record.FactoryID),
		zap.Int("week", record.Week),
	)
	return record, nil
}

// CreatePurchaseOrder stores a new purchase order. Status defaults to Pending.
func (s *Service) CreatePurchaseOrder(ctx context.Context, in models.PurchaseOrderInput) (models.PurchaseOrder, error) {
	if err := in.Validate(); err != nil {
		return models.PurchaseOrder{}, err
	}

	order := models.PurchaseOrder{
		ID:                   s.newID(),
		Supplier:             strings.TrimSpace(in.Supplier),
		PONumber:             strings.TrimSpace(in.PONumber),
		Product:              strings.TrimSpace(in.Product),
		Qty:                  in.Qty,
		OrderDate:            validDate(in.OrderDate),
		ExpectedDeliveryDate: validDate(in.ExpectedDeliveryDate),
		ActualDeliveryDate:   validDate(in.ActualDeliveryDate),
		Status:               in.Status,
	}
	if order.Status == "" {
		order.Status = models.PurchasePending
	}

	if err := s.repo.InsertPurchaseOrder(ctx, order); err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("insert purchase order: %w", err)
	}

	s.logger.Info("purchase order created", zap.String("id", order.ID), zap.String("po_number", order.PONumber))
	return order, nil
}

// CreateSalesOrder stores a new sales order. Status defaults to Planned.
func (s *Service) CreateSalesOrder(ctx context.Context, in models.SalesOrderInput) (models.SalesOrder, error) {
	if err := in.Validate(); err != nil {
		return models.SalesOrder{}, err
	}

	order := models.SalesOrder{
		ID:                   s.newID(),
		Client:               strings.TrimSpace(in.Client),
		SalesOrderNumber:     strings.TrimSpace(in.SalesOrderNumber),
		ClientPONumber:       strings.TrimSpace(in.ClientPONumber),
		Product:              strings.TrimSpace(in.Product),
		Qty:                  in.Qty,
		OrderDate:            validDate(in.OrderDate),
		ExpectedDispatchDate: validDate(in.ExpectedDispatchDate),
		ActualDispatchDate:   validDate(in.ActualDispatchDate),
		Status:               in.Status,
	}
	if order.Status == "" {
		order.Status = models.SalesPlanned
	}

	if err := s.repo.InsertSalesOrder(ctx, order); err != nil {
		return models.SalesOrder{}, fmt.Errorf("insert sales order: %w", err)
	}

	s.logger.Info("sales order created", zap.String("id", order.ID), zap.String("sales_order_number", order.SalesOrderNumber))
	return order, nil
}

// RecordActuals sets the actual quantity and recovery rate of an existing
// production record. Unknown ids surface warehouse.ErrNotFound.
func (s *Service) RecordActuals(ctx context.Context, in models.ProductionActualsInput) (models.ProductionRecord, error) {
	if strings.TrimSpace(in.ID) == "" {
		return models.ProductionRecord{}, ErrMissingID
	}
	if err := in.Validate(); err != nil {
		return models.ProductionRecord{}, err
	}

	record, err := s.repo.UpdateProductionActuals(ctx, in.ID, *in.ActualQty, *in.ActualRecoveryRate)
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("update production actuals: %w", err)
	}

	s.logger.Info("production actuals recorded", zap.String("id", record.ID))
	return record, nil
}

func validDate(d *models.Date) *models.Date {
	if !d.Valid() {
		return nil
	}
	return d
}
