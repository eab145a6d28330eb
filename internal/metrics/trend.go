package metrics

import (
	"time"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

const trendWindow = 7 * 24 * time.Hour

// SalesTrend compares units ordered in the last seven days with the seven
// days before that.
type SalesTrend struct {
	Last7Qty  float64  `json:"last_7_qty"`
	Prev7Qty  float64  `json:"prev_7_qty"`
	ChangePct *float64 `json:"change_pct"`
}

// ComputeSalesTrend buckets sales orders by order date relative to now.
// Orders without an order date are ignored.
func ComputeSalesTrend(sales []models.SalesOrder, now time.Time) SalesTrend {
	var trend SalesTrend

	lastStart := now.Add(-trendWindow)
	prevStart := now.Add(-2 * trendWindow)

	for _, order := range sales {
		if !order.OrderDate.Valid() {
			continue
		}
		at := order.OrderDate.Time
		switch {
		case at.After(lastStart):
			trend.Last7Qty += quantity(order.Qty)
		case at.After(prevStart):
			trend.Prev7Qty += quantity(order.Qty)
		}
	}

	if trend.Prev7Qty > 0 {
		change := (trend.Last7Qty - trend.Prev7Qty) / trend.Prev7Qty * 100
		trend.ChangePct = &change
	}
	return trend
}
