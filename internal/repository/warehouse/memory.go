package warehouse

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// MemoryRepository keeps the collections in process memory.
type MemoryRepository struct {
	mu         sync.RWMutex
	factories  []models.Factory
	production []models.ProductionRecord
	purchases  []models.PurchaseOrder
	sales      []models.SalesOrder
}

// NewMemoryRepository returns an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// NewSeededMemoryRepository returns an in-memory store holding the fixtures.
func NewSeededMemoryRepository() *MemoryRepository {
	fx := Fixtures()
	return &MemoryRepository{
		factories:  fx.Factories,
		production: fx.ProductionData,
		purchases:  fx.PurchaseOrders,
		sales:      fx.SalesOrders,
	}
}

func (r *MemoryRepository) ListFactories(_ context.Context) ([]models.Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneOrEmpty(r.factories), nil
}

func (r *MemoryRepository) ListProductionRecords(_ context.Context) ([]models.ProductionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneOrEmpty(r.production), nil
}

func (r *MemoryRepository) ListPurchaseOrders(_ context.Context) ([]models.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneOrEmpty(r.purchases), nil
}

func (r *MemoryRepository) ListSalesOrders(_ context.Context) ([]models.SalesOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneOrEmpty(r.sales), nil
}

func (r *MemoryRepository) InsertFactory(_ context.Context, factory models.Factory) error {
	if factory.ID == "" {
		return fmt.Errorf("insert into %s: id must not be empty", TableFactories)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, factory)
	return nil
}

func (r *MemoryRepository) InsertProductionRecord(_ context.Context, record models.ProductionRecord) error {
	if record.ID == "" {
		return fmt.Errorf("insert into %s: id must not be empty", TableProductionData)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.production = append(r.production, record)
	return nil
}

func (r *MemoryRepository) InsertPurchaseOrder(_ context.Context, order models.PurchaseOrder) error {
	if order.ID == "" {
		return fmt.Errorf("insert into %s: id must not be empty", TablePurchaseOrders)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases = append(r.purchases, order)
	return nil
}

func (r *MemoryRepository) InsertSalesOrder(_ context.Context, order models.SalesOrder) error {
	if order.ID == "" {
		return fmt.Errorf("insert into %s: id must not be empty", TableSalesOrders)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = append(r.sales, order)
	return nil
}

func (r *MemoryRepository) UpdateProductionActuals(_ context.Context, id string, actualQty, actualRecoveryRate float64) (models.ProductionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.production {
		if r.production[i].ID != id {
			continue
		}
		// Fresh pointers so records handed out earlier keep their values.
		r.production[i].ActualQty = &actualQty
		r.production[i].ActualRecoveryRate = &actualRecoveryRate
		return r.production[i], nil
	}
	return models.ProductionRecord{}, fmt.Errorf("production record %s: %w", id, ErrNotFound)
}

func cloneOrEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return slices.Clone(items)
}
