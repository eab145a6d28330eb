package models

// FactoryStatus is the operating state of a factory.
type FactoryStatus string

const (
	FactoryActive           FactoryStatus = "Active"
	FactoryPartiallyActive  FactoryStatus = "Partially Active"
	FactoryUnderMaintenance FactoryStatus = "Under Maintenance"
	FactoryIdle             FactoryStatus = "Idle"
	FactoryClosed           FactoryStatus = "Closed"
)

// Valid reports whether s is a known status.
func (s FactoryStatus) Valid() bool {
	switch s {
	case FactoryActive, FactoryPartiallyActive, FactoryUnderMaintenance, FactoryIdle, FactoryClosed:
		return true
	}
	return false
}

// Factory is a processing site with a nominal daily throughput.
type Factory struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Location      string        `json:"location"`
	DailyCapacity float64       `json:"daily_capacity"`
	Status        FactoryStatus `json:"status"`
}

// FactoryInput is the create payload for a factory.
type FactoryInput struct {
	Name          string        `json:"name" validate:"required,notblank"`
	Location      string        `json:"location" validate:"required,notblank"`
	DailyCapacity float64       `json:"daily_capacity" validate:"required,gt=0"`
	Status        FactoryStatus `json:"status"`
}

// Validate checks the documented required fields.
func (in FactoryInput) Validate() error {
	var invalid []string
	if in.Status != "" && !in.Status.Valid() {
		invalid = append(invalid, "status")
	}
	return validateInput("factory", in, invalid...)
}
