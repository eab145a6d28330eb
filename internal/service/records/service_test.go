package records

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/repository/warehouse"
)

func newTestService() (*Service, *warehouse.MemoryRepository) {
	repo := warehouse.NewMemoryRepository()
	svc := NewService(repo, nil)
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return svc, repo
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateFactoryDefaultsStatus(t *testing.T) {
	svc, repo := newTestService()

	got, err := svc.CreateFactory(context.Background(), models.FactoryInput{Name: " Athi River ", Location: "Kenya", DailyCapacity: 10000})
	if err != nil {
		t.Fatalf("CreateFactory: %v", err)
	}
	if got.ID != "id-1" || got.Name != "Athi River" || got.Status != models.FactoryActive {
		t.Fatalf("factory = %+v", got)
	}

	stored, _ := repo.ListFactories(context.Background())
	if len(stored) != 1 || stored[0] != got {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestCreateFactoryValidation(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.CreateFactory(context.Background(), models.FactoryInput{Name: "Athi River"})
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 2 {
		t.Fatalf("missing = %v", verr.Missing)
	}

	_, err = svc.CreateFactory(context.Background(), models.FactoryInput{Name: "A", Location: "B", DailyCapacity: 1, Status: "Haunted"})
	if !errors.As(err, &verr) || len(verr.Invalid) != 1 || verr.Invalid[0] != "status" {
		t.Fatalf("expected invalid status, got %v", err)
	}

	_, err = svc.CreateFactory(context.Background(), models.FactoryInput{Name: "   ", Location: "\t", DailyCapacity: 10})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for blank fields, got %v", err)
	}
	if len(verr.Missing) != 2 || verr.Missing[0] != "name" || verr.Missing[1] != "location" {
		t.Fatalf("missing = %v", verr.Missing)
	}

	stored, _ := repo.ListFactories(context.Background())
	if len(stored) != 0 {
		t.Fatal("invalid factories must not be stored")
	}
}

func TestCreateProductionRecordFillsYearOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		in       models.ProductionInput
		wantWeek int
		wantYear int
	}{
		{
			name:     "week given, year derived",
			in:       models.ProductionInput{Week: 39, StartDate: models.DatePtr(models.NewDate(2025, 9, 21))},
			wantWeek: 39,
			wantYear: 2025,
		},
		{
			name:     "iso year differs from calendar year",
			in:       models.ProductionInput{Week: 1, StartDate: models.DatePtr(models.NewDate(2024, 12, 30))},
			wantWeek: 1,
			wantYear: 2025,
		},
		{
			name:     "both given",
			in:       models.ProductionInput{Week: 12, Year: 2023, StartDate: models.DatePtr(models.NewDate(2025, 9, 21))},
			wantWeek: 12,
			wantYear: 2023,
		},
		{
			name:     "no start date",
			in:       models.ProductionInput{Week: 7},
			wantWeek: 7,
			wantYear: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.FactoryID, in.Product, in.Qty, in.RecoveryRate = "F001", "Avocado", 1000, 0.07

			got, err := svc.CreateProductionRecord(ctx, in)
			if err != nil {
				t.Fatalf("CreateProductionRecord: %v", err)
			}
			if got.Week != tt.wantWeek || got.Year != tt.wantYear {
				t.Fatalf("week/year = %d/%d, want %d/%d", got.Week, got.Year, tt.wantWeek, tt.wantYear)
			}
		})
	}
}

func TestCreateRejectsBlankRequiredStrings(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name    string
		create  func() error
		missing string
	}{
		{
			name: "production product",
			create: func() error {
				_, err := svc.CreateProductionRecord(ctx, models.ProductionInput{FactoryID: "F001", Product: "  ", Qty: 10, RecoveryRate: 0.1})
				return err
			},
			missing: "product",
		},
		{
			name: "purchase order supplier",
			create: func() error {
				_, err := svc.CreatePurchaseOrder(ctx, models.PurchaseOrderInput{Supplier: " ", PONumber: "PO-1", Product: "Avocado", Qty: 1})
				return err
			},
			missing: "supplier",
		},
		{
			name: "sales order number",
			create: func() error {
				_, err := svc.CreateSalesOrder(ctx, models.SalesOrderInput{Client: "Givaudan", SalesOrderNumber: "\n", Product: "Clove Bud Oil", Qty: 1})
				return err
			},
			missing: "sales_order_number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *models.ValidationError
			if err := tt.create(); !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(verr.Missing) != 1 || verr.Missing[0] != tt.missing {
				t.Fatalf("missing = %v", verr.Missing)
			}
		})
	}
}

func TestCreateProductionRecordDerivesWeek(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.CreateProductionRecord(context.Background(), models.ProductionInput{
		FactoryID:    "F001",
		Product:      "Avocado",
		Qty:          1000,
		RecoveryRate: 0.07,
		ActiveDays:   6,
		StartDate:    models.DatePtr(models.NewDate(2025, 9, 21)),
	})
	if err != nil {
		t.Fatalf("CreateProductionRecord: %v", err)
	}
	if got.Week != 38 || got.Year != 2025 {
		t.Fatalf("week/year = %d/%d", got.Week, got.Year)
	}
	if got.ActualQty != nil || got.ActualRecoveryRate != nil {
		t.Fatal("actuals must start empty")
	}
}

func TestCreateProductionRecordKeepsExplicitWeek(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.CreateProductionRecord(context.Background(), models.ProductionInput{
		FactoryID:    "F001",
		Product:      "Avocado",
		Week:         40,
		Year:         2025,
		Qty:          1000,
		RecoveryRate: 0.07,
		StartDate:    models.DatePtr(models.NewDate(2025, 9, 21)),
	})
	if err != nil {
		t.Fatalf("CreateProductionRecord: %v", err)
	}
	if got.Week != 40 {
		t.Fatalf("week = %d", got.Week)
	}
}

func TestCreateProductionRecordISOYear(t *testing.T) {
	svc, _ := newTestService()

	got, err := svc.CreateProductionRecord(context.Background(), models.ProductionInput{
		FactoryID:    "F001",
		Product:      "Avocado",
		Qty:          1,
		RecoveryRate: 0.5,
		StartDate:    models.DatePtr(models.NewDate(2024, 12, 30)),
	})
	if err != nil {
		t.Fatalf("CreateProductionRecord: %v", err)
	}
	if got.Week != 1 || got.Year != 2025 {
		t.Fatalf("week/year = %d/%d", got.Week, got.Year)
	}
}

func TestCreateOrdersDefaultStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, models.PurchaseOrderInput{Supplier: "KFP", PONumber: "PO-1", Product: "Shea Nuts", Qty: 10})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if po.Status != models.PurchasePending {
		t.Fatalf("po status = %q", po.Status)
	}

	so, err := svc.CreateSalesOrder(ctx, models.SalesOrderInput{Client: "Givaudan", SalesOrderNumber: "SO-1", Product: "Clove Bud Oil", Qty: 5, Status: models.SalesInProduction})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if so.Status != models.SalesInProduction {
		t.Fatalf("so status = %q", so.Status)
	}

	if _, err := svc.CreateSalesOrder(ctx, models.SalesOrderInput{Client: "Givaudan"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRecordActuals(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_ = repo.InsertProductionRecord(ctx, models.ProductionRecord{ID: "PD1", FactoryID: "F1", Product: "Avocado", Qty: 100, RecoveryRate: 0.07})

	got, err := svc.RecordActuals(ctx, models.ProductionActualsInput{ID: "PD1", ActualQty: floatPtr(95), ActualRecoveryRate: floatPtr(0.065)})
	if err != nil {
		t.Fatalf("RecordActuals: %v", err)
	}
	if !got.HasActuals() || *got.ActualQty != 95 {
		t.Fatalf("record = %+v", got)
	}

	if _, err := svc.RecordActuals(ctx, models.ProductionActualsInput{ActualQty: floatPtr(1), ActualRecoveryRate: floatPtr(0.1)}); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}

	if _, err := svc.RecordActuals(ctx, models.ProductionActualsInput{ID: "nope", ActualQty: floatPtr(1), ActualRecoveryRate: floatPtr(0.1)}); !errors.Is(err, warehouse.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var verr *models.ValidationError
	if _, err := svc.RecordActuals(ctx, models.ProductionActualsInput{ID: "PD1", ActualQty: floatPtr(1)}); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
