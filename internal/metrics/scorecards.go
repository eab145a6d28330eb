// Package metrics derives the dashboard figures from snapshots of factories,
// production records and orders. Every function is pure: inputs are read,
// never modified, and nothing is retained between calls.
package metrics

import (
	"math"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// Scorecards holds the headline numbers of the dashboard.
type Scorecards struct {
	TotalSalesUnits         float64 `json:"total_sales_units"`
	OpenPurchaseOrders      int     `json:"open_purchase_orders"`
	ProductionForecastTotal float64 `json:"production_forecast_total"`
	ProjectedOilTotal       float64 `json:"projected_oil_total"`
	FactoryCount            int     `json:"factory_count"`
}

// ComputeScorecards aggregates each collection independently. Nil and empty
// collections contribute zero.
//
// A purchase order counts as open until its status is Delivered, so Overdue
// and Cancelled orders are still open.
func ComputeScorecards(sales []models.SalesOrder, purchases []models.PurchaseOrder, production []models.ProductionRecord, factories []models.Factory) Scorecards {
	var cards Scorecards

	for _, order := range sales {
		cards.TotalSalesUnits += quantity(order.Qty)
	}

	for _, order := range purchases {
		if !order.Completed() {
			cards.OpenPurchaseOrders++
		}
	}

	for _, record := range production {
		cards.ProductionForecastTotal += quantity(record.Qty)
		cards.ProjectedOilTotal += quantity(record.Qty) * quantity(record.RecoveryRate)
	}

	cards.FactoryCount = len(factories)
	return cards
}

// quantity maps non-numeric values to zero.
func quantity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
