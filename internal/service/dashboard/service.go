package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/metrics"
	"github.com/kutoka/fairoils-bi/internal/repository/warehouse"
)

// Dashboard is everything the planning dashboard renders in one payload.
type Dashboard struct {
	GeneratedAt    time.Time                                     `json:"generated_at"`
	Today          models.Date                                   `json:"today"`
	Scorecards     metrics.Scorecards                            `json:"scorecards"`
	Variance       *metrics.Variance                             `json:"variance"`
	Utilization    []metrics.FactoryUtilization                  `json:"utilization"`
	PurchaseOrders []metrics.AnnotatedOrder[models.PurchaseOrder] `json:"purchase_orders"`
	SalesOrders    []metrics.AnnotatedOrder[models.SalesOrder]    `json:"sales_orders"`
	TopProducts    []metrics.ProductTotal                        `json:"top_products"`
	SalesTrend     metrics.SalesTrend                            `json:"sales_trend"`
	RecentSales    []models.SalesOrder                           `json:"recent_sales"`
	Warnings       []string                                      `json:"warnings,omitempty"`
}

// Snapshot extracts the headline figures kept in the digest history.
func (d Dashboard) Snapshot(summary string) models.DashboardSnapshot {
	snapshot := models.DashboardSnapshot{
		TakenAt:                 d.GeneratedAt,
		TotalSalesUnits:         d.Scorecards.TotalSalesUnits,
		OpenPurchaseOrders:      d.Scorecards.OpenPurchaseOrders,
		ProductionForecastTotal: d.Scorecards.ProductionForecastTotal,
		ProjectedOilTotal:       d.Scorecards.ProjectedOilTotal,
		FactoryCount:            d.Scorecards.FactoryCount,
		Summary:                 summary,
	}
	if d.Variance != nil {
		qty, recovery := d.Variance.QtyVariancePct, d.Variance.RecoveryVariancePct
		snapshot.QtyVariancePct = &qty
		snapshot.RecoveryVariancePct = &recovery
	}
	if len(d.TopProducts) > 0 {
		snapshot.TopProduct = d.TopProducts[0].Product
	}
	return snapshot
}

// Builder produces dashboards. The scheduler and handlers depend on this
// rather than on *Service.
type Builder interface {
	Build(ctx context.Context, today time.Time) (Dashboard, error)
	Today() time.Time
}

// Service loads the planning collections and runs the metrics over them.
type Service struct {
	repo     warehouse.Repository
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a dashboard service. Today is taken in loc, UTC when nil.
func NewService(repo warehouse.Repository, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Today is the current time in the configured location.
func (s *Service) Today() time.Time {
	return s.now().In(s.location)
}

type collections struct {
	factories  []models.Factory
	production []models.ProductionRecord
	purchases  []models.PurchaseOrder
	sales      []models.SalesOrder
	warnings   []string
}

// Build loads the four collections concurrently and derives the dashboard
// for the given day. A collection that fails to load is treated as empty and
// named in Warnings; only a cancelled context fails the build.
func (s *Service) Build(ctx context.Context, today time.Time) (Dashboard, error) {
	data, err := s.load(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	dash := Dashboard{
		GeneratedAt:    s.now().UTC(),
		Today:          models.Civil(today),
		Scorecards:     metrics.ComputeScorecards(data.sales, data.purchases, data.production, data.factories),
		Utilization:    metrics.ComputeUtilizationSeries(data.production, data.factories),
		PurchaseOrders: metrics.SortByUrgency(data.purchases, metrics.AnnotateOrders(data.purchases, today, metrics.PurchaseDelivery)),
		SalesOrders:    metrics.SortByUrgency(data.sales, metrics.AnnotateOrders(data.sales, today, metrics.SalesDispatch)),
		TopProducts:    metrics.ComputeTopProducts(data.sales, metrics.DefaultTopProducts),
		SalesTrend:     metrics.ComputeSalesTrend(data.sales, today),
		RecentSales:    metrics.RecentSales(data.sales, metrics.DefaultRecentSales),
		Warnings:       data.warnings,
	}
	if variance, ok := metrics.ComputeVariance(data.production); ok {
		dash.Variance = &variance
	}

	s.logger.Debug("dashboard built",
		zap.Int("factories", len(data.factories)),
		zap.Int("production", len(data.production)),
		zap.Int("purchase_orders", len(data.purchases)),
		zap.Int("sales_orders", len(data.sales)),
		zap.Int("warnings", len(data.warnings)),
	)
	return dash, nil
}

func (s *Service) load(ctx context.Context) (collections, error) {
	var (
		data collections
		mu   sync.Mutex
		g    errgroup.Group
	)

	failed := func(name string, err error) {
		s.logger.Warn("failed to load collection", zap.String("collection", name), zap.Error(err))
		mu.Lock()
		data.warnings = append(data.warnings, fmt.Sprintf("%s unavailable: %v", name, err))
		mu.Unlock()
	}

	g.Go(func() error {
		items, err := s.repo.ListFactories(ctx)
		if err != nil {
			failed(warehouse.TableFactories, err)
			return nil
		}
		data.factories = items
		return nil
	})
	g.Go(func() error {
		items, err := s.repo.ListProductionRecords(ctx)
		if err != nil {
			failed(warehouse.TableProductionData, err)
			return nil
		}
		data.production = items
		return nil
	})
	g.Go(func() error {
		items, err := s.repo.ListPurchaseOrders(ctx)
		if err != nil {
			failed(warehouse.TablePurchaseOrders, err)
			return nil
		}
		data.purchases = items
		return nil
	})
	g.Go(func() error {
		items, err := s.repo.ListSalesOrders(ctx)
		if err != nil {
			failed(warehouse.TableSalesOrders, err)
			return nil
		}
		data.sales = items
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return collections{}, fmt.Errorf("load dashboard data: %w", err)
	}
	// Warnings arrive in completion order.
	slices.Sort(data.warnings)
	return data, nil
}
