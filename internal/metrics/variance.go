package metrics

import "github.com/kutoka/fairoils-bi/internal/domain/models"

// Variance compares actual against planned production for completed records.
type Variance struct {
	QtyVariancePct      float64 `json:"qty_variance_pct"`
	RecoveryVariancePct float64 `json:"recovery_variance_pct"`
	CompletedRecords    int     `json:"completed_records"`
}

// ComputeVariance returns false when no record has both actual fields set, or
// when the planned quantity or mean planned recovery rate of those records is
// zero. A false result means "no data", never "0% variance".
func ComputeVariance(production []models.ProductionRecord) (Variance, bool) {
	var (
		planned, actual         float64
		plannedRate, actualRate float64
		completed               int
	)

	for _, record := range production {
		if !record.HasActuals() {
			continue
		}
		planned += quantity(record.Qty)
		actual += quantity(*record.ActualQty)
		plannedRate += quantity(record.RecoveryRate)
		actualRate += quantity(*record.ActualRecoveryRate)
		completed++
	}

	if completed == 0 || planned == 0 {
		return Variance{}, false
	}

	meanPlannedRate := plannedRate / float64(completed)
	if meanPlannedRate == 0 {
		return Variance{}, false
	}
	meanActualRate := actualRate / float64(completed)

	return Variance{
		QtyVariancePct:      (actual - planned) / planned * 100,
		RecoveryVariancePct: (meanActualRate - meanPlannedRate) / meanPlannedRate * 100,
		CompletedRecords:    completed,
	}, true
}
