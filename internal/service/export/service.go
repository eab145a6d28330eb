// Package export renders the planning collections as XLSX workbooks.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/repository/warehouse"
)

// ErrUnknownEntity is returned for an entity name that has no export.
var ErrUnknownEntity = errors.New("unknown export entity")

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Entities lists the exportable collections.
var Entities = []string{
	warehouse.TableFactories,
	warehouse.TableProductionData,
	warehouse.TablePurchaseOrders,
	warehouse.TableSalesOrders,
}

// table is a header row plus data rows ready for a sheet.
type table struct {
	columns []string
	rows    [][]interface{}
}

// Service builds workbooks from the warehouse.
type Service struct {
	repo   warehouse.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new export service instance.
func NewService(repo warehouse.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Export returns the workbook bytes and a download filename for entity.
func (s *Service) Export(ctx context.Context, entity string) ([]byte, string, error) {
	data, err := s.load(ctx, entity)
	if err != nil {
		return nil, "", err
	}

	content, err := render(entity, data)
	if err != nil {
		return nil, "", fmt.Errorf("render %s workbook: %w", entity, err)
	}

	filename := fmt.Sprintf("%s-%s.xlsx", entity, s.now().UTC().Format("20060102"))
	s.logger.Info("export generated", zap.String("entity", entity), zap.Int("rows", len(data.rows)), zap.Int("bytes", len(content)))
	return content, filename, nil
}

func (s *Service) load(ctx context.Context, entity string) (table, error) {
	switch entity {
	case warehouse.TableFactories:
		items, err := s.repo.ListFactories(ctx)
		if err != nil {
			return table{}, fmt.Errorf("list factories: %w", err)
		}
		return factoryTable(items), nil
	case warehouse.TableProductionData:
		items, err := s.repo.ListProductionRecords(ctx)
		if err != nil {
			return table{}, fmt.Errorf("list production records: %w", err)
		}
		return productionTable(items), nil
	case warehouse.TablePurchaseOrders:
		items, err := s.repo.ListPurchaseOrders(ctx)
		if err != nil {
			return table{}, fmt.Errorf("list purchase orders: %w", err)
		}
		return purchaseOrderTable(items), nil
	case warehouse.TableSalesOrders:
		items, err := s.repo.ListSalesOrders(ctx)
		if err != nil {
			return table{}, fmt.Errorf("list sales orders: %w", err)
		}
		return salesOrderTable(items), nil
	}
	return table{}, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}

func render(sheetName string, data table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range data.columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range data.rows {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	for i := range data.columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, 18); err != nil {
			return nil, err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func factoryTable(items []models.Factory) table {
	t := table{columns: []string{"id", "name", "location", "daily_capacity", "status"}}
	for _, f := range items {
		t.rows = append(t.rows, []interface{}{f.ID, f.Name, f.Location, f.DailyCapacity, string(f.Status)})
	}
	return t
}

func productionTable(items []models.ProductionRecord) table {
	t := table{columns: []string{
		"id", "factory_id", "product", "week", "year", "qty", "recovery_rate", "projected_oil",
		"active_days", "start_date", "actual_qty", "actual_recovery_rate",
	}}
	for _, p := range items {
		t.rows = append(t.rows, []interface{}{
			p.ID, p.FactoryID, p.Product, p.Week, p.Year, p.Qty, p.RecoveryRate, p.ProjectedOil(),
			p.ActiveDays, dateCell(p.StartDate), floatCell(p.ActualQty), floatCell(p.ActualRecoveryRate),
		})
	}
	return t
}

func purchaseOrderTable(items []models.PurchaseOrder) table {
	t := table{columns: []string{
		"id", "supplier", "po_number", "product", "qty", "order_date",
		"expected_delivery_date", "actual_delivery_date", "status",
	}}
	for _, o := range items {
		t.rows = append(t.rows, []interface{}{
			o.ID, o.Supplier, o.PONumber, o.Product, o.Qty, dateCell(o.OrderDate),
			dateCell(o.ExpectedDeliveryDate), dateCell(o.ActualDeliveryDate), string(o.Status),
		})
	}
	return t
}

func salesOrderTable(items []models.SalesOrder) table {
	t := table{columns: []string{
		"id", "client", "sales_order_number", "client_po_number", "product", "qty", "order_date",
		"expected_dispatch_date", "actual_dispatch_date", "status",
	}}
	for _, o := range items {
		t.rows = append(t.rows, []interface{}{
			o.ID, o.Client, o.SalesOrderNumber, o.ClientPONumber, o.Product, o.Qty, dateCell(o.OrderDate),
			dateCell(o.ExpectedDispatchDate), dateCell(o.ActualDispatchDate), string(o.Status),
		})
	}
	return t
}

// Absent values are written as empty cells.
func dateCell(d *models.Date) interface{} {
	if !d.Valid() {
		return ""
	}
	return d.String()
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
