package warehouse

import (
	"context"
	"errors"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// ErrRecordBusy is returned when a record cannot be modified yet, e.g. rows
// still in the BigQuery streaming buffer.
var ErrRecordBusy = errors.New("record is not yet writable")

// Table names shared by every driver.
const (
	TableFactories      = "factories"
	TableProductionData = "production_data"
	TablePurchaseOrders = "purchase_orders"
	TableSalesOrders    = "sales_orders"
)

// Repository is the storage contract of the four planning collections.
type Repository interface {
	ListFactories(ctx context.Context) ([]models.Factory, error)
	ListProductionRecords(ctx context.Context) ([]models.ProductionRecord, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)
	ListSalesOrders(ctx context.Context) ([]models.SalesOrder, error)

	InsertFactory(ctx context.Context, factory models.Factory) error
	InsertProductionRecord(ctx context.Context, record models.ProductionRecord) error
	InsertPurchaseOrder(ctx context.Context, order models.PurchaseOrder) error
	InsertSalesOrder(ctx context.Context, order models.SalesOrder) error

	// UpdateProductionActuals sets both actual fields of a production record
	// and returns the updated record, ErrNotFound or ErrRecordBusy.
	UpdateProductionActuals(ctx context.Context, id string, actualQty, actualRecoveryRate float64) (models.ProductionRecord, error)
}
