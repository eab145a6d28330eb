package metrics

import "github.com/kutoka/fairoils-bi/internal/domain/models"

// UnknownFactoryName is shown for factories that are missing or unnamed.
const UnknownFactoryName = "Unknown factory"

// UtilizationPoint is one production record plotted against its factory.
type UtilizationPoint struct {
	RecordID       string   `json:"record_id"`
	Product        string   `json:"product"`
	Week           int      `json:"week"`
	Year           int      `json:"year"`
	Qty            float64  `json:"qty"`
	ProjectedOil   float64  `json:"projected_oil"`
	UtilizationPct *float64 `json:"utilization_pct"`
}

// FactoryUtilization groups the utilization points of one factory.
type FactoryUtilization struct {
	FactoryID   string             `json:"factory_id"`
	FactoryName string             `json:"factory_name"`
	Known       bool               `json:"known"`
	Points      []UtilizationPoint `json:"points"`
}

// ComputeUtilization is planned qty over theoretical output for the period,
// as a percentage. Values above 100 are kept as is.
func ComputeUtilization(record models.ProductionRecord, factory *models.Factory) (float64, bool) {
	if factory == nil || factory.DailyCapacity <= 0 || record.ActiveDays <= 0 {
		return 0, false
	}
	return quantity(record.Qty) * 100 / (factory.DailyCapacity * float64(record.ActiveDays)), true
}

// LookupFactory finds a factory by id. The returned pointer is a copy.
func LookupFactory(id string, factories []models.Factory) (*models.Factory, bool) {
	for _, f := range factories {
		if f.ID == id {
			found := f
			return &found, true
		}
	}
	return nil, false
}

// FactoryName resolves a factory id to its name, or UnknownFactoryName.
func FactoryName(id string, factories []models.Factory) string {
	if f, ok := LookupFactory(id, factories); ok && f.Name != "" {
		return f.Name
	}
	return UnknownFactoryName
}

// ComputeUtilizationSeries groups production records by factory. Known
// factories come first in their listed order, followed by unknown factory
// ids in the order they were first referenced. Factories without records
// are included with no points.
func ComputeUtilizationSeries(production []models.ProductionRecord, factories []models.Factory) []FactoryUtilization {
	series := make([]FactoryUtilization, 0, len(factories))
	index := make(map[string]int, len(factories))

	for _, f := range factories {
		if _, dup := index[f.ID]; dup {
			continue
		}
		index[f.ID] = len(series)
		series = append(series, FactoryUtilization{
			FactoryID:   f.ID,
			FactoryName: FactoryName(f.ID, factories),
			Known:       true,
			Points:      []UtilizationPoint{},
		})
	}

	for _, record := range production {
		pos, ok := index[record.FactoryID]
		if !ok {
			pos = len(series)
			index[record.FactoryID] = pos
			series = append(series, FactoryUtilization{
				FactoryID:   record.FactoryID,
				FactoryName: UnknownFactoryName,
				Points:      []UtilizationPoint{},
			})
		}

		factory, _ := LookupFactory(record.FactoryID, factories)
		point := UtilizationPoint{
			RecordID:     record.ID,
			Product:      record.Product,
			Week:         record.Week,
			Year:         record.Year,
			Qty:          quantity(record.Qty),
			ProjectedOil: quantity(record.Qty) * quantity(record.RecoveryRate),
		}
		if pct, ok := ComputeUtilization(record, factory); ok {
			point.UtilizationPct = &pct
		}
		series[pos].Points = append(series[pos].Points, point)
	}

	return series
}
