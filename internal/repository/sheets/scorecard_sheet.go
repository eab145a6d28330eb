package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// ScorecardRange is the tab holding one row per weekly digest.
const ScorecardRange = "Scorecards!A:I"

// Column order of ScorecardRange.
var scorecardHeader = []interface{}{
	"taken_at", "total_sales_units", "open_purchase_orders", "production_forecast_total",
	"projected_oil_total", "factory_count", "qty_variance_pct", "recovery_variance_pct", "top_product",
}

// ScorecardSheet keeps a spreadsheet history of digest scorecards.
type ScorecardSheet struct {
	repo   Repository
	logger *zap.Logger
}

// NewScorecardSheet wraps a sheet repository.
func NewScorecardSheet(repo Repository, logger *zap.Logger) *ScorecardSheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScorecardSheet{repo: repo, logger: logger}
}

// AppendSnapshot writes one scorecard row. Unavailable variances are left blank.
func (s *ScorecardSheet) AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	row := []interface{}{
		snapshot.TakenAt.UTC().Format(time.RFC3339),
		snapshot.TotalSalesUnits,
		snapshot.OpenPurchaseOrders,
		snapshot.ProductionForecastTotal,
		snapshot.ProjectedOilTotal,
		snapshot.FactoryCount,
		optional(snapshot.QtyVariancePct),
		optional(snapshot.RecoveryVariancePct),
		snapshot.TopProduct,
	}

	if err := s.repo.WriteRow(ctx, ScorecardRange, row); err != nil {
		return fmt.Errorf("append scorecard: %w", err)
	}
	return nil
}

// History reads the scorecard rows back. The header row and rows with an
// unreadable timestamp are skipped.
func (s *ScorecardSheet) History(ctx context.Context) ([]models.DashboardSnapshot, error) {
	rows, err := s.repo.ReadRange(ctx, ScorecardRange)
	if err != nil {
		return nil, fmt.Errorf("load scorecards: %w", err)
	}

	out := make([]models.DashboardSnapshot, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		takenAt, err := time.Parse(time.RFC3339, cell(row, 0))
		if err != nil {
			s.logger.Debug("skip scorecard row with invalid timestamp", zap.Any("value", row[0]), zap.Error(err))
			continue
		}

		out = append(out, models.DashboardSnapshot{
			TakenAt:                 takenAt,
			TotalSalesUnits:         parseFloat(cell(row, 1)),
			OpenPurchaseOrders:      int(parseFloat(cell(row, 2))),
			ProductionForecastTotal: parseFloat(cell(row, 3)),
			ProjectedOilTotal:       parseFloat(cell(row, 4)),
			FactoryCount:            int(parseFloat(cell(row, 5))),
			QtyVariancePct:          parseOptionalFloat(cell(row, 6)),
			RecoveryVariancePct:     parseOptionalFloat(cell(row, 7)),
			TopProduct:              cell(row, 8),
		})
	}
	return out, nil
}

// WriteHeader appends the column names. Meant for a freshly created tab.
func (s *ScorecardSheet) WriteHeader(ctx context.Context) error {
	if err := s.repo.WriteRow(ctx, ScorecardRange, scorecardHeader); err != nil {
		return fmt.Errorf("write scorecard header: %w", err)
	}
	return nil
}

// EnsureHeader writes the header row when the tab holds no rows yet and
// reports whether it did.
func (s *ScorecardSheet) EnsureHeader(ctx context.Context) (bool, error) {
	rows, err := s.repo.ReadRange(ctx, ScorecardRange)
	if err != nil {
		return false, fmt.Errorf("load scorecards: %w", err)
	}
	if len(rows) > 0 {
		return false, nil
	}
	if err := s.WriteHeader(ctx); err != nil {
		return false, err
	}
	s.logger.Info("scorecard header written", zap.String("range", ScorecardRange))
	return true, nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func parseFloat(value string) float64 {
	if v := parseOptionalFloat(value); v != nil {
		return *v
	}
	return 0
}

func parseOptionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
