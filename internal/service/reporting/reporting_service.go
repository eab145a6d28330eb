package reporting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
	"github.com/kutoka/fairoils-bi/internal/service/dashboard"
	"github.com/kutoka/fairoils-bi/internal/service/insights"
	"github.com/kutoka/fairoils-bi/internal/service/whatsapp"
)

const (
	dateLayout   = "2006-01-02"
	digestPrompt = "weekly overview"
)

// SnapshotStore keeps the digest history.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// ScorecardWriter appends digest scorecards to a spreadsheet.
type ScorecardWriter interface {
	AppendSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// Sinks are the optional destinations of a digest. Nil fields are skipped.
type Sinks struct {
	Snapshots  SnapshotStore
	Scorecards ScorecardWriter
	Messenger  whatsapp.MessagingService
	Recipient  string
}

// Digest is the outcome of one digest run.
type Digest struct {
	Text      string                   `json:"text"`
	Snapshot  models.DashboardSnapshot `json:"snapshot"`
	Delivered []string                 `json:"delivered"`
	Failed    []string                 `json:"failed"`
}

// Service composes the weekly digest and hands it to the configured sinks.
type Service struct {
	dashboards dashboard.Builder
	provider   insights.SummaryProvider
	sinks      Sinks
	logger     *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(dashboards dashboard.Builder, provider insights.SummaryProvider, sinks Sinks, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{dashboards: dashboards, provider: provider, sinks: sinks, logger: logger}
}

// RunDigest builds today's dashboard, summarizes it and delivers it. Only a
// failure to build or summarize is returned; sink failures are logged and
// listed in Digest.Failed.
func (s *Service) RunDigest(ctx context.Context) (Digest, error) {
	today := s.dashboards.Today()

	dash, err := s.dashboards.Build(ctx, today)
	if err != nil {
		return Digest{}, fmt.Errorf("build dashboard: %w", err)
	}

	summary, err := s.provider.Summarize(ctx, digestPrompt, dash)
	if err != nil {
		return Digest{}, fmt.Errorf("summarize dashboard: %w", err)
	}

	digest := Digest{
		Text:      FormatDigest(dash, summary),
		Snapshot:  dash.Snapshot(summary.Text),
		Delivered: []string{},
		Failed:    []string{},
	}

	s.deliver(&digest, "mongodb", s.sinks.Snapshots != nil, func() error {
		return s.sinks.Snapshots.SaveSnapshot(ctx, digest.Snapshot)
	})
	s.deliver(&digest, "sheets", s.sinks.Scorecards != nil, func() error {
		return s.sinks.Scorecards.AppendSnapshot(ctx, digest.Snapshot)
	})
	s.deliver(&digest, "whatsapp", s.sinks.Messenger != nil && s.sinks.Recipient != "", func() error {
		return s.sinks.Messenger.SendOutbound(ctx, models.OutboundMessageRequest{To: s.sinks.Recipient, Message: digest.Text})
	})

	s.logger.Info("digest completed",
		zap.Strings("delivered", digest.Delivered),
		zap.Strings("failed", digest.Failed),
	)
	return digest, nil
}

func (s *Service) deliver(digest *Digest, sink string, enabled bool, send func() error) {
	if !enabled {
		return
	}
	if err := send(); err != nil {
		s.logger.Error("digest sink failed", zap.String("sink", sink), zap.Error(err))
		digest.Failed = append(digest.Failed, sink)
		return
	}
	digest.Delivered = append(digest.Delivered, sink)
}

// FormatDigest renders the digest message text.
func FormatDigest(dash dashboard.Dashboard, summary insights.Summary) string {
	var b strings.Builder
	cards := dash.Scorecards

	fmt.Fprintf(&b, "Fairoils weekly digest (%s)\n", dash.Today.Format(dateLayout))
	fmt.Fprintf(&b, "Sales: %.0f units\n", cards.TotalSalesUnits)
	fmt.Fprintf(&b, "Open purchase orders: %d\n", cards.OpenPurchaseOrders)
	fmt.Fprintf(&b, "Production forecast: %.0f kg, projected oil %.0f kg\n", cards.ProductionForecastTotal, cards.ProjectedOilTotal)
	fmt.Fprintf(&b, "Factories: %d\n", cards.FactoryCount)

	if dash.Variance != nil {
		fmt.Fprintf(&b, "Variance: qty %+.1f%%, recovery %+.1f%%\n", dash.Variance.QtyVariancePct, dash.Variance.RecoveryVariancePct)
	} else {
		b.WriteString("Variance: unavailable\n")
	}

	if overdue := overduePurchaseOrders(dash); len(overdue) > 0 {
		fmt.Fprintf(&b, "Overdue POs: %s\n", strings.Join(overdue, ", "))
	}

	if summary.Text != "" {
		b.WriteString("\n")
		b.WriteString(summary.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func overduePurchaseOrders(dash dashboard.Dashboard) []string {
	var out []string
	for _, po := range dash.PurchaseOrders {
		if po.Order.Completed() || po.DaysRemaining == nil || *po.DaysRemaining >= 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s (%dd)", po.Order.PONumber, -*po.DaysRemaining))
	}
	return out
}
