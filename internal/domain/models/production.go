package models

// ProductionRecord is a weekly production forecast for one product at one
// factory. Actual values stay nil until they are recorded.
type ProductionRecord struct {
	ID                 string   `json:"id"`
	FactoryID          string   `json:"factory_id"`
	Product            string   `json:"product"`
	Week               int      `json:"week"`
	Year               int      `json:"year"`
	Qty                float64  `json:"qty"`
	RecoveryRate       float64  `json:"recovery_rate"`
	ActiveDays         int      `json:"active_days"`
	StartDate          *Date    `json:"start_date"`
	ActualQty          *float64 `json:"actual_qty"`
	ActualRecoveryRate *float64 `json:"actual_recovery_rate"`
}

// ProjectedOil is the planned output, qty × recovery rate.
func (r ProductionRecord) ProjectedOil() float64 {
	return r.Qty * r.RecoveryRate
}

// HasActuals reports whether both actual fields have been recorded.
func (r ProductionRecord) HasActuals() bool {
	return r.ActualQty != nil && r.ActualRecoveryRate != nil
}

// ProductionInput is the create payload for a production forecast.
type ProductionInput struct {
	FactoryID    string  `json:"factory_id" validate:"required,notblank"`
	Product      string  `json:"product" validate:"required,notblank"`
	Week         int     `json:"week" validate:"gte=0,lte=53"`
	Year         int     `json:"year" validate:"gte=0"`
	Qty          float64 `json:"qty" validate:"required,gt=0"`
	RecoveryRate float64 `json:"recovery_rate" validate:"required,gt=0,lte=1"`
	ActiveDays   int     `json:"active_days" validate:"gte=0,lte=7"`
	StartDate    *Date   `json:"start_date"`
}

// Validate checks the documented required fields.
func (in ProductionInput) Validate() error {
	return validateInput("production data", in)
}

// ProductionActualsInput records what a forecast actually produced.
type ProductionActualsInput struct {
	ID                 string   `json:"id"`
	ActualQty          *float64 `json:"actual_qty" validate:"required,gte=0"`
	ActualRecoveryRate *float64 `json:"actual_recovery_rate" validate:"required,gte=0,lte=1"`
}

// Validate checks that both actual values are present and in range.
func (in ProductionActualsInput) Validate() error {
	return validateInput("production actuals", in)
}
