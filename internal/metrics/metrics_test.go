package metrics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

func floatPtr(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) *models.Date {
	return models.DatePtr(models.NewDate(y, m, d))
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeScorecards(t *testing.T) {
	sales := []models.SalesOrder{{Qty: 10}, {Qty: 5.5}, {Qty: math.NaN()}}
	purchases := []models.PurchaseOrder{
		{Status: models.PurchasePending},
		{Status: models.PurchaseDelivered},
		{Status: models.PurchaseCancelled},
		{Status: models.PurchaseOverdue},
	}
	production := []models.ProductionRecord{
		{Qty: 1000, RecoveryRate: 0.5},
		{Qty: 200, RecoveryRate: 0.25},
	}
	factories := []models.Factory{{ID: "F1"}, {ID: "F2"}}

	got := ComputeScorecards(sales, purchases, production, factories)
	want := Scorecards{
		TotalSalesUnits:         15.5,
		OpenPurchaseOrders:      3,
		ProductionForecastTotal: 1200,
		ProjectedOilTotal:       550,
		FactoryCount:            2,
	}
	if got != want {
		t.Fatalf("ComputeScorecards() = %+v, want %+v", got, want)
	}
}

func TestComputeScorecards_EmptyCollectionsAreIndependent(t *testing.T) {
	sales := []models.SalesOrder{{Qty: 7}}
	purchases := []models.PurchaseOrder{{Status: models.PurchaseInTransit}}
	production := []models.ProductionRecord{{Qty: 3}}
	factories := []models.Factory{{ID: "F1"}}

	full := ComputeScorecards(sales, purchases, production, factories)

	if got := ComputeScorecards(nil, purchases, production, factories); got.TotalSalesUnits != 0 || got.OpenPurchaseOrders != full.OpenPurchaseOrders || got.FactoryCount != full.FactoryCount {
		t.Fatalf("empty sales changed other cards: %+v", got)
	}
	if got := ComputeScorecards(sales, nil, production, factories); got.OpenPurchaseOrders != 0 || got.TotalSalesUnits != full.TotalSalesUnits {
		t.Fatalf("empty purchases changed other cards: %+v", got)
	}
	if got := ComputeScorecards(sales, purchases, []models.ProductionRecord{}, factories); got.ProductionForecastTotal != 0 || got.FactoryCount != 1 {
		t.Fatalf("empty production changed other cards: %+v", got)
	}
	if got := ComputeScorecards(sales, purchases, production, nil); got.FactoryCount != 0 || got.ProductionForecastTotal != full.ProductionForecastTotal {
		t.Fatalf("empty factories changed other cards: %+v", got)
	}
	if got := ComputeScorecards(nil, nil, nil, nil); got != (Scorecards{}) {
		t.Fatalf("all empty: %+v", got)
	}
}

func TestComputeVariance(t *testing.T) {
	tests := []struct {
		name       string
		records    []models.ProductionRecord
		wantOK     bool
		wantQty    float64
		wantRecov  float64
		wantRecord int
	}{
		{
			name:    "no records",
			records: nil,
		},
		{
			name: "no completed records",
			records: []models.ProductionRecord{
				{Qty: 100, RecoveryRate: 0.5},
				{Qty: 100, RecoveryRate: 0.5, ActualQty: floatPtr(90)},
			},
		},
		{
			name: "exact match is zero",
			records: []models.ProductionRecord{
				{Qty: 35000, RecoveryRate: 0.6, ActualQty: floatPtr(35000), ActualRecoveryRate: floatPtr(0.6)},
				{Qty: 75000, RecoveryRate: 0.155},
			},
			wantOK:     true,
			wantRecord: 1,
		},
		{
			name: "over and under",
			records: []models.ProductionRecord{
				{Qty: 100, RecoveryRate: 0.5, ActualQty: floatPtr(120), ActualRecoveryRate: floatPtr(0.4)},
				{Qty: 300, RecoveryRate: 0.3, ActualQty: floatPtr(300), ActualRecoveryRate: floatPtr(0.3)},
			},
			wantOK:     true,
			wantQty:    5,
			wantRecov:  -12.5,
			wantRecord: 2,
		},
		{
			name: "zero planned qty",
			records: []models.ProductionRecord{
				{Qty: 0, RecoveryRate: 0.5, ActualQty: floatPtr(10), ActualRecoveryRate: floatPtr(0.5)},
			},
		},
		{
			name: "zero planned recovery",
			records: []models.ProductionRecord{
				{Qty: 10, RecoveryRate: 0, ActualQty: floatPtr(10), ActualRecoveryRate: floatPtr(0.5)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeVariance(tt.records)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !approxEqual(got.QtyVariancePct, tt.wantQty) {
				t.Errorf("qty variance = %v, want %v", got.QtyVariancePct, tt.wantQty)
			}
			if !approxEqual(got.RecoveryVariancePct, tt.wantRecov) {
				t.Errorf("recovery variance = %v, want %v", got.RecoveryVariancePct, tt.wantRecov)
			}
			if got.CompletedRecords != tt.wantRecord {
				t.Errorf("completed = %d, want %d", got.CompletedRecords, tt.wantRecord)
			}
		})
	}
}

func TestComputeUtilization(t *testing.T) {
	factory := &models.Factory{ID: "F1", DailyCapacity: 10000}

	tests := []struct {
		name    string
		record  models.ProductionRecord
		factory *models.Factory
		want    float64
		wantOK  bool
	}{
		{name: "over capacity is not clamped", record: models.ProductionRecord{Qty: 12000, ActiveDays: 1}, factory: factory, want: 120, wantOK: true},
		{name: "week of production", record: models.ProductionRecord{Qty: 54000, ActiveDays: 6}, factory: factory, want: 90, wantOK: true},
		{name: "missing factory", record: models.ProductionRecord{Qty: 54000, ActiveDays: 6}, factory: nil},
		{name: "zero capacity", record: models.ProductionRecord{Qty: 1, ActiveDays: 6}, factory: &models.Factory{DailyCapacity: 0}},
		{name: "negative capacity", record: models.ProductionRecord{Qty: 1, ActiveDays: 6}, factory: &models.Factory{DailyCapacity: -5}},
		{name: "zero active days", record: models.ProductionRecord{Qty: 1, ActiveDays: 0}, factory: factory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeUtilization(tt.record, tt.factory)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("utilization = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeUtilizationSeries(t *testing.T) {
	factories := []models.Factory{
		{ID: "F1", Name: "Athi River", DailyCapacity: 10000},
		{ID: "F2", Name: "Lunga", DailyCapacity: 0},
		{ID: "F3", Name: "Idle"},
	}
	production := []models.ProductionRecord{
		{ID: "P1", FactoryID: "F2", Product: "Ginger", Qty: 100, ActiveDays: 6},
		{ID: "P2", FactoryID: "F9", Product: "Thyme", Qty: 100, ActiveDays: 6},
		{ID: "P3", FactoryID: "F1", Product: "Moringa", Qty: 54000, RecoveryRate: 0.1, ActiveDays: 6},
	}

	series := ComputeUtilizationSeries(production, factories)
	if len(series) != 4 {
		t.Fatalf("expected 4 series, got %d", len(series))
	}

	order := []string{"F1", "F2", "F3", "F9"}
	for i, id := range order {
		if series[i].FactoryID != id {
			t.Fatalf("series[%d] = %s, want %s", i, series[i].FactoryID, id)
		}
	}

	if series[0].FactoryName != "Athi River" || len(series[0].Points) != 1 {
		t.Fatalf("unexpected F1 series: %+v", series[0])
	}
	if pct := series[0].Points[0].UtilizationPct; pct == nil || *pct != 90 {
		t.Fatalf("F1 utilization = %v, want 90", pct)
	}
	if !approxEqual(series[0].Points[0].ProjectedOil, 5400) {
		t.Fatalf("projected oil = %v", series[0].Points[0].ProjectedOil)
	}
	if series[1].Points[0].UtilizationPct != nil {
		t.Fatalf("zero capacity factory must be unavailable")
	}
	if len(series[2].Points) != 0 {
		t.Fatalf("factory without records must have no points")
	}
	if series[3].Known || series[3].FactoryName != UnknownFactoryName || series[3].Points[0].UtilizationPct != nil {
		t.Fatalf("unknown factory series: %+v", series[3])
	}
}

func TestComputeUtilizationSeries_UnnamedFactory(t *testing.T) {
	factories := []models.Factory{{ID: "F1", DailyCapacity: 1000}}
	production := []models.ProductionRecord{{ID: "P1", FactoryID: "F1", Qty: 600, ActiveDays: 6}}

	series := ComputeUtilizationSeries(production, factories)
	if len(series) != 1 || !series[0].Known {
		t.Fatalf("series = %+v", series)
	}
	if series[0].FactoryName != UnknownFactoryName {
		t.Fatalf("factory name = %q, want %q", series[0].FactoryName, UnknownFactoryName)
	}
	if pct := series[0].Points[0].UtilizationPct; pct == nil || *pct != 10 {
		t.Fatalf("utilization = %v, want 10", pct)
	}
}

func TestFactoryName(t *testing.T) {
	factories := []models.Factory{{ID: "F1", Name: "Athi River"}}
	if got := FactoryName("F1", factories); got != "Athi River" {
		t.Fatalf("FactoryName(F1) = %q", got)
	}
	if got := FactoryName("F404", factories); got != UnknownFactoryName {
		t.Fatalf("FactoryName(F404) = %q", got)
	}
	if got := FactoryName("F1", nil); got != UnknownFactoryName {
		t.Fatalf("FactoryName with no factories = %q", got)
	}
}

func TestAnnotateOrder_IgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	order := models.PurchaseOrder{ExpectedDeliveryDate: date(2025, time.January, 12)}

	for _, today := range []time.Time{
		time.Date(2025, time.January, 10, 23, 0, 0, 0, loc),
		time.Date(2025, time.January, 10, 0, 0, 0, 0, loc),
		time.Date(2025, time.January, 10, 23, 59, 59, 0, time.UTC),
	} {
		ann := AnnotateOrder(order, today, PurchaseDelivery)
		if ann.DaysRemaining == nil || *ann.DaysRemaining != 2 {
			t.Fatalf("today %s: days remaining = %v, want 2", today, ann.DaysRemaining)
		}
		if ann.VarianceDays != nil {
			t.Fatalf("variance must be unavailable without an actual date")
		}
	}
}

func TestAnnotateOrder(t *testing.T) {
	today := time.Date(2025, time.September, 25, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name          string
		order         models.SalesOrder
		wantRemaining *int
		wantVariance  *int
	}{
		{
			name:  "no dates",
			order: models.SalesOrder{},
		},
		{
			name:  "actual without expected",
			order: models.SalesOrder{ActualDispatchDate: date(2025, time.September, 1)},
		},
		{
			name:          "overdue",
			order:         models.SalesOrder{ExpectedDispatchDate: date(2025, time.September, 20)},
			wantRemaining: intPtr(-5),
		},
		{
			name:          "late dispatch",
			order:         models.SalesOrder{ExpectedDispatchDate: date(2025, time.September, 20), ActualDispatchDate: date(2025, time.September, 21)},
			wantRemaining: intPtr(-5),
			wantVariance:  intPtr(1),
		},
		{
			name:          "early dispatch",
			order:         models.SalesOrder{ExpectedDispatchDate: date(2025, time.October, 15), ActualDispatchDate: date(2025, time.October, 10)},
			wantRemaining: intPtr(20),
			wantVariance:  intPtr(-5),
		},
		{
			name:          "zero date is absent",
			order:         models.SalesOrder{ExpectedDispatchDate: &models.Date{}},
			wantRemaining: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := AnnotateOrder(tt.order, today, SalesDispatch)
			if !reflect.DeepEqual(ann.DaysRemaining, tt.wantRemaining) {
				t.Errorf("days remaining = %v, want %v", deref(ann.DaysRemaining), deref(tt.wantRemaining))
			}
			if !reflect.DeepEqual(ann.VarianceDays, tt.wantVariance) {
				t.Errorf("variance = %v, want %v", deref(ann.VarianceDays), deref(tt.wantVariance))
			}
		})
	}
}

func TestAnnotateOrder_AcrossYearBoundary(t *testing.T) {
	today := time.Date(2024, time.December, 30, 12, 0, 0, 0, time.UTC)
	order := models.PurchaseOrder{ExpectedDeliveryDate: date(2025, time.March, 1)}
	ann := AnnotateOrder(order, today, PurchaseDelivery)
	if ann.DaysRemaining == nil || *ann.DaysRemaining != 61 {
		t.Fatalf("days remaining = %v, want 61", deref(ann.DaysRemaining))
	}
}

func TestSortByUrgency(t *testing.T) {
	orders := []models.PurchaseOrder{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}
	annotations := []Annotation{
		{},
		{DaysRemaining: intPtr(5)},
		{DaysRemaining: intPtr(-2)},
		{},
		{DaysRemaining: intPtr(5)},
	}

	sorted := SortByUrgency(orders, annotations)

	var got []string
	for _, item := range sorted {
		got = append(got, item.Order.ID)
	}
	want := []string{"c", "b", "e", "a", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	if orders[0].ID != "a" || annotations[0].DaysRemaining != nil || *annotations[1].DaysRemaining != 5 {
		t.Fatalf("inputs were modified")
	}
}

func TestSortByUrgency_MissingAnnotations(t *testing.T) {
	orders := []models.SalesOrder{{ID: "a"}, {ID: "b"}}
	sorted := SortByUrgency(orders, []Annotation{{}, {DaysRemaining: intPtr(1)}}[:1])
	if len(sorted) != 2 || sorted[0].Order.ID != "a" || sorted[1].Order.ID != "b" {
		t.Fatalf("unexpected result: %+v", sorted)
	}
}

func TestComputeTopProducts(t *testing.T) {
	sales := []models.SalesOrder{
		{Product: "A", Qty: 5},
		{Product: "B", Qty: 9},
		{Product: "A", Qty: 3},
	}

	got := ComputeTopProducts(sales, 2)
	want := []ProductTotal{{Product: "B", Qty: 9}, {Product: "A", Qty: 8}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeTopProducts() = %+v, want %+v", got, want)
	}
}

func TestComputeTopProducts_UnknownAndTies(t *testing.T) {
	sales := []models.SalesOrder{
		{Product: "", Qty: 4},
		{Product: "Clove", Qty: 6},
		{Product: "  ", Qty: 2},
		{Product: "Vetiver", Qty: 6},
		{Product: "Thyme", Qty: 1},
		{Product: "Ginger", Qty: 1},
		{Product: "Rose", Qty: 1},
	}

	got := ComputeTopProducts(sales, 0)
	want := []ProductTotal{
		{Product: UnknownProduct, Qty: 6},
		{Product: "Clove", Qty: 6},
		{Product: "Vetiver", Qty: 6},
		{Product: "Thyme", Qty: 1},
		{Product: "Ginger", Qty: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeTopProducts() = %+v, want %+v", got, want)
	}

	if got := ComputeTopProducts(nil, 5); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestComputeWeekNumber(t *testing.T) {
	tests := []struct {
		date     time.Time
		wantYear int
		wantWeek int
	}{
		{time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), 2025, 1},
		{time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), 2025, 1},
		{time.Date(2021, time.January, 3, 0, 0, 0, 0, time.UTC), 2020, 53},
		{time.Date(2025, time.September, 22, 0, 0, 0, 0, time.UTC), 2025, 39},
	}

	for _, tt := range tests {
		if got := ComputeWeekNumber(tt.date); got != tt.wantWeek {
			t.Errorf("ComputeWeekNumber(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.wantWeek)
		}
		if year, week := ComputeWeek(tt.date); year != tt.wantYear || week != tt.wantWeek {
			t.Errorf("ComputeWeek(%s) = %d-W%d, want %d-W%d", tt.date.Format("2006-01-02"), year, week, tt.wantYear, tt.wantWeek)
		}
	}
}

func TestComputeSalesTrend(t *testing.T) {
	now := time.Date(2025, time.October, 16, 12, 0, 0, 0, time.UTC)
	sales := []models.SalesOrder{
		{Qty: 10, OrderDate: date(2025, time.October, 15)},
		{Qty: 5, OrderDate: date(2025, time.October, 10)},
		{Qty: 20, OrderDate: date(2025, time.October, 9)},
		{Qty: 7, OrderDate: date(2025, time.October, 1)},
		{Qty: 100},
	}

	got := ComputeSalesTrend(sales, now)
	if got.Last7Qty != 15 || got.Prev7Qty != 20 {
		t.Fatalf("trend = %+v, want last 15 prev 20", got)
	}
	if got.ChangePct == nil || !approxEqual(*got.ChangePct, -25) {
		t.Fatalf("change = %v, want -25", deref(got.ChangePct))
	}

	if empty := ComputeSalesTrend(nil, now); empty.ChangePct != nil || empty.Last7Qty != 0 {
		t.Fatalf("empty trend = %+v", empty)
	}
}

func TestRecentSales(t *testing.T) {
	sales := make([]models.SalesOrder, 10)
	for i := range sales {
		sales[i].Qty = float64(i)
	}
	got := RecentSales(sales, 0)
	if len(got) != DefaultRecentSales || got[7].Qty != 7 {
		t.Fatalf("unexpected recent sales: %+v", got)
	}
	got[0].Qty = 99
	if sales[0].Qty != 0 {
		t.Fatalf("RecentSales must copy")
	}
	if got := RecentSales(nil, 3); got == nil || len(got) != 0 {
		t.Fatalf("expected empty slice, got %#v", got)
	}
}

func TestOperationsAreIdempotent(t *testing.T) {
	today := time.Date(2025, time.September, 25, 8, 0, 0, 0, time.UTC)
	factories := []models.Factory{{ID: "F1", Name: "Athi River", DailyCapacity: 10000}}
	production := []models.ProductionRecord{
		{ID: "P1", FactoryID: "F1", Qty: 54000, RecoveryRate: 0.6, ActiveDays: 6, ActualQty: floatPtr(50000), ActualRecoveryRate: floatPtr(0.55)},
	}
	purchases := []models.PurchaseOrder{
		{ID: "PO1", ExpectedDeliveryDate: date(2025, time.October, 15)},
		{ID: "PO2", ExpectedDeliveryDate: date(2025, time.September, 20), ActualDeliveryDate: date(2025, time.September, 21), Status: models.PurchaseDelivered},
	}
	sales := []models.SalesOrder{{Product: "A", Qty: 5, OrderDate: date(2025, time.September, 24)}}

	run := func() []any {
		variance, ok := ComputeVariance(production)
		return []any{
			ComputeScorecards(sales, purchases, production, factories),
			variance, ok,
			ComputeUtilizationSeries(production, factories),
			SortByUrgency(purchases, AnnotateOrders(purchases, today, PurchaseDelivery)),
			ComputeTopProducts(sales, 5),
			ComputeSalesTrend(sales, today),
		}
	}

	if first, second := run(), run(); !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between calls:\n%+v\n%+v", first, second)
	}
}

func TestEndToEndScenario(t *testing.T) {
	factory := models.Factory{ID: "F1", DailyCapacity: 10000}
	planned := models.ProductionRecord{ID: "P1", FactoryID: "F1", Qty: 54000, ActiveDays: 6, RecoveryRate: 0.07}
	completed := models.ProductionRecord{ID: "P2", FactoryID: "F1", Qty: 35000, RecoveryRate: 0.6, ActualQty: floatPtr(35000), ActualRecoveryRate: floatPtr(0.6)}

	if pct, ok := ComputeUtilization(planned, &factory); !ok || pct != 90 {
		t.Fatalf("utilization = %v (ok=%v), want 90", pct, ok)
	}

	variance, ok := ComputeVariance([]models.ProductionRecord{planned, completed})
	if !ok {
		t.Fatalf("variance should be available")
	}
	if variance.QtyVariancePct != 0 || variance.RecoveryVariancePct != 0 {
		t.Fatalf("variance = %+v, want zeros", variance)
	}
}

func intPtr(v int) *int { return &v }

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
