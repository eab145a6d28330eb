package warehouse

import (
	"time"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// FixtureSet is the demo data served by /api/mock_data and used to seed the
// memory store.
type FixtureSet struct {
	Factories      []models.Factory          `json:"factories"`
	ProductionData []models.ProductionRecord `json:"production_data"`
	PurchaseOrders []models.PurchaseOrder    `json:"purchase_orders"`
	SalesOrders    []models.SalesOrder       `json:"sales_orders"`
}

// Fixtures returns a fresh copy of the demo data on every call.
func Fixtures() FixtureSet {
	return FixtureSet{
		Factories: []models.Factory{
			{ID: "F001", Name: "Athi River", DailyCapacity: 10000, Location: "Athi River, Kenya", Status: models.FactoryActive},
			{ID: "F002", Name: "Lunga Factory", DailyCapacity: 10000, Location: "Kwale, Kenya", Status: models.FactoryActive},
			{ID: "F003", Name: "Mt Kenya Factory", DailyCapacity: 10000, Location: "Nanyuki, Kenya", Status: models.FactoryUnderMaintenance},
			{ID: "F004", Name: "Mara Factory", DailyCapacity: 6000, Location: "Narok, Kenya", Status: models.FactoryIdle},
			{ID: "F005", Name: "La Cite Factory", DailyCapacity: 8000, Location: "Antananarivo, Madagascar", Status: models.FactoryPartiallyActive},
			{ID: "F006", Name: "Fangato Factory", DailyCapacity: 8000, Location: "Mananjary, Madagascar", Status: models.FactoryActive},
			{ID: "F007", Name: "Amani Factory", DailyCapacity: 8000, Location: "Amani, Tanzania", Status: models.FactoryActive},
		},
		ProductionData: []models.ProductionRecord{
			forecast("PD00", "F001", "Avocado", 1000000, 0.07, day(2025, 9, 21), ptr(900800), ptr(0.065)),
			forecast("PD01", "F001", "Macadamia", 35000, 0.60, day(2024, 9, 21), nil, nil),
			forecast("PD02", "F001", "Moringa", 75000, 0.155, day(2024, 9, 21), nil, nil),
			forecast("PD001", "F002", "Eucalyptus Citriodora", 200000, 0.0114, day(2025, 9, 21), ptr(190500), ptr(0.009)),
			forecast("PD002", "F002", "Ginger Roots", 48000, 0.0036, day(2025, 9, 21), ptr(53500), ptr(0.004)),
			forecast("PD0001", "F003", "Rose Geranium", 100000, 0.0012, day(2024, 9, 21), nil, nil),
			forecast("PD0002", "F003", "Rosemary FFL", 75000, 0.0054, day(2024, 9, 21), nil, nil),
			forecast("PD00001", "F004", "Thyme", 100000, 0.0059, day(2024, 9, 21), nil, nil),
			forecast("PD00002", "F004", "Rosemary", 75000, 0.0054, day(2024, 9, 21), nil, nil),
			forecast("PD000001", "F005", "Cinnamon", 100000, 0.0060, day(2024, 9, 21), nil, nil),
			forecast("PD000002", "F005", "Blackpepper", 55000, 0.0380, day(2024, 9, 21), nil, nil),
			forecast("PD0000001", "F006", "Clove Buds", 90000, 0.1250, day(2024, 9, 21), nil, nil),
			forecast("PD0000002", "F006", "Vetiver", 75000, 0.0100, day(2024, 9, 21), nil, nil),
			forecast("PD00000001", "F007", "Bitter Orange Leaves", 75000, 0.0050, day(2024, 9, 21), nil, nil),
		},
		PurchaseOrders: []models.PurchaseOrder{
			{
				ID: "PO001", Supplier: "Uganda Aromatics Ltd.", PONumber: "PO-77543", Product: "Moringa Seeds", Qty: 50000,
				OrderDate: day(2025, 9, 1), ExpectedDeliveryDate: day(2025, 10, 15), Status: models.PurchaseInTransit,
			},
			{
				ID: "PO002", Supplier: "KFP.", PONumber: "PO-77544", Product: "Shea Nuts", Qty: 80000,
				OrderDate: day(2025, 8, 10), ExpectedDeliveryDate: day(2025, 9, 20), ActualDeliveryDate: day(2025, 9, 21), Status: models.PurchaseDelivered,
			},
		},
		SalesOrders: []models.SalesOrder{
			{
				ID: "SO001", Client: "Givaudan", SalesOrderNumber: "SO-1001", ClientPONumber: "GV-5521", Product: "Clove Bud Oil", Qty: 1200,
				OrderDate: day(2025, 9, 15), ExpectedDispatchDate: day(2025, 10, 20), Status: models.SalesInProduction,
			},
			{
				ID: "SO002", Client: "Firmenich", SalesOrderNumber: "SO-1002", ClientPONumber: "FM-9902", Product: "Avocado Oil", Qty: 5000,
				OrderDate: day(2025, 9, 2), ExpectedDispatchDate: day(2025, 9, 30), ActualDispatchDate: day(2025, 10, 2), Status: models.SalesDispatched,
			},
			{
				ID: "SO003", Client: "Symrise", SalesOrderNumber: "SO-1003", Product: "Clove Bud Oil", Qty: 800,
				OrderDate: day(2025, 9, 28), Status: models.SalesPlanned,
			},
		},
	}
}

func forecast(id, factoryID, product string, qty, rate float64, start *models.Date, actualQty, actualRate *float64) models.ProductionRecord {
	return models.ProductionRecord{
		ID:                 id,
		FactoryID:          factoryID,
		Product:            product,
		Week:               39,
		Year:               2025,
		Qty:                qty,
		RecoveryRate:       rate,
		ActiveDays:         6,
		StartDate:          start,
		ActualQty:          actualQty,
		ActualRecoveryRate: actualRate,
	}
}

func day(year int, month time.Month, d int) *models.Date {
	return models.DatePtr(models.NewDate(year, month, d))
}

func ptr(v float64) *float64 {
	return &v
}
