package models

import "time"

// DashboardSnapshot is the headline figures of one digest run, kept as history.
type DashboardSnapshot struct {
	TakenAt                 time.Time `bson:"taken_at" json:"taken_at"`
	TotalSalesUnits         float64   `bson:"total_sales_units" json:"total_sales_units"`
	OpenPurchaseOrders      int       `bson:"open_purchase_orders" json:"open_purchase_orders"`
	ProductionForecastTotal float64   `bson:"production_forecast_total" json:"production_forecast_total"`
	ProjectedOilTotal       float64   `bson:"projected_oil_total" json:"projected_oil_total"`
	FactoryCount            int       `bson:"factory_count" json:"factory_count"`
	QtyVariancePct          *float64  `bson:"qty_variance_pct" json:"qty_variance_pct"`
	RecoveryVariancePct     *float64  `bson:"recovery_variance_pct" json:"recovery_variance_pct"`
	TopProduct              string    `bson:"top_product" json:"top_product"`
	Summary                 string    `bson:"summary" json:"summary"`
}
