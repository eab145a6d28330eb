// Package insights turns a dashboard into short written summaries.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kutoka/fairoils-bi/internal/service/dashboard"
)

// Topics a prompt can be routed to.
const (
	TopicOverview    = "overview"
	TopicProducts    = "products"
	TopicTrend       = "trend"
	TopicPurchasing  = "purchasing"
	TopicUtilization = "utilization"
	TopicVariance    = "variance"
)

// LocalProviderName identifies summaries written by LocalProvider.
const LocalProviderName = "local"

// ErrEmptyPrompt is returned for a blank prompt.
var ErrEmptyPrompt = errors.New("prompt must not be empty")

// Summary is a written answer about one dashboard.
type Summary struct {
	Prompt      string    `json:"prompt"`
	Topic       string    `json:"topic"`
	Text        string    `json:"text"`
	Highlights  []string  `json:"highlights"`
	Provider    string    `json:"provider"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SummaryProvider writes a summary of a dashboard in answer to a prompt.
type SummaryProvider interface {
	Summarize(ctx context.Context, prompt string, dash dashboard.Dashboard) (Summary, error)
}

// topicKeywords is checked in order; the first topic with a matching
// keyword wins.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{TopicVariance, []string{"variance", "actual"}},
	{TopicUtilization, []string{"factory", "factories", "utilization", "utilisation", "capacity"}},
	{TopicPurchasing, []string{"purchase", "supplier", "po"}},
	{TopicTrend, []string{"trend", "week"}},
	{TopicProducts, []string{"top", "product"}},
}

// LocalProvider answers from the dashboard figures with fixed templates.
type LocalProvider struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewLocalProvider builds the rule-based provider.
func NewLocalProvider(logger *zap.Logger) *LocalProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{logger: logger, now: time.Now}
}

// Summarize picks a topic from the prompt keywords and renders it.
func (p *LocalProvider) Summarize(ctx context.Context, prompt string, dash dashboard.Dashboard) (Summary, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Summary{}, ErrEmptyPrompt
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	topic := DetectTopic(prompt)

	var highlights []string
	switch topic {
	case TopicProducts:
		highlights = productHighlights(dash)
	case TopicTrend:
		highlights = trendHighlights(dash)
	case TopicPurchasing:
		highlights = purchasingHighlights(dash)
	case TopicUtilization:
		highlights = utilizationHighlights(dash)
	case TopicVariance:
		highlights = varianceHighlights(dash)
	default:
		highlights = overviewHighlights(dash)
	}

	p.logger.Debug("summary generated", zap.String("topic", topic), zap.Int("highlights", len(highlights)))

	return Summary{
		Prompt:      prompt,
		Topic:       topic,
		Text:        strings.Join(highlights, " "),
		Highlights:  highlights,
		Provider:    LocalProviderName,
		GeneratedAt: p.now().UTC(),
	}, nil
}

// DetectTopic maps a prompt to one of the topic constants by whole-word
// keyword match, falling back to TopicOverview.
func DetectTopic(prompt string) string {
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})

	for _, entry := range topicKeywords {
		for _, word := range words {
			for _, keyword := range entry.keywords {
				if word == keyword || strings.TrimSuffix(word, "s") == keyword {
					return entry.topic
				}
			}
		}
	}
	return TopicOverview
}

func overviewHighlights(dash dashboard.Dashboard) []string {
	cards := dash.Scorecards
	out := []string{
		fmt.Sprintf("%s units ordered across all sales orders.", formatQty(cards.TotalSalesUnits)),
		fmt.Sprintf("%d open purchase orders and %d factories on record.", cards.OpenPurchaseOrders, cards.FactoryCount),
		fmt.Sprintf("Production forecast totals %s kg with %s kg of projected oil.", formatQty(cards.ProductionForecastTotal), formatQty(cards.ProjectedOilTotal)),
	}
	if len(dash.TopProducts) > 0 {
		out = append(out, fmt.Sprintf("Best selling product is %s.", dash.TopProducts[0].Product))
	}
	return append(out, dash.Warnings...)
}

func productHighlights(dash dashboard.Dashboard) []string {
	if len(dash.TopProducts) == 0 {
		return []string{"No sales data yet."}
	}

	out := make([]string, 0, len(dash.TopProducts))
	for i, p := range dash.TopProducts {
		out = append(out, fmt.Sprintf("%d. %s with %s units.", i+1, p.Product, formatQty(p.Qty)))
	}
	return out
}

func trendHighlights(dash dashboard.Dashboard) []string {
	trend := dash.SalesTrend
	out := []string{
		fmt.Sprintf("%s units ordered in the last 7 days against %s in the 7 days before.", formatQty(trend.Last7Qty), formatQty(trend.Prev7Qty)),
	}
	if trend.ChangePct == nil {
		return append(out, "No orders in the previous week to compare against.")
	}

	direction := "up"
	if *trend.ChangePct < 0 {
		direction = "down"
	}
	return append(out, fmt.Sprintf("Sales are %s %s week on week.", direction, formatPct(abs(*trend.ChangePct))))
}

func purchasingHighlights(dash dashboard.Dashboard) []string {
	out := []string{fmt.Sprintf("%d purchase orders are open.", dash.Scorecards.OpenPurchaseOrders)}

	var overdue, dueSoon int
	for _, po := range dash.PurchaseOrders {
		if po.Order.Completed() || po.DaysRemaining == nil {
			continue
		}
		switch days := *po.DaysRemaining; {
		case days < 0:
			overdue++
		case days <= 7:
			dueSoon++
		}
	}
	out = append(out, fmt.Sprintf("%d are past their expected delivery date and %d are due within a week.", overdue, dueSoon))

	for _, po := range dash.PurchaseOrders {
		if po.Order.Completed() || po.DaysRemaining == nil {
			continue
		}
		out = append(out, fmt.Sprintf("Most urgent is %s from %s, %s.", po.Order.PONumber, po.Order.Supplier, describeDays(*po.DaysRemaining)))
		break
	}
	return out
}

func utilizationHighlights(dash dashboard.Dashboard) []string {
	var out []string
	for _, f := range dash.Utilization {
		var sum float64
		var n int
		for _, point := range f.Points {
			if point.UtilizationPct == nil {
				continue
			}
			sum += *point.UtilizationPct
			n++
		}
		if n == 0 {
			continue
		}
		out = append(out, fmt.Sprintf("%s runs at %s of capacity on average.", f.FactoryName, formatPct(sum/float64(n))))
	}

	if len(out) == 0 {
		return []string{"Utilization cannot be computed: no forecast has both a known factory capacity and active days."}
	}
	return out
}

func varianceHighlights(dash dashboard.Dashboard) []string {
	if dash.Variance == nil {
		return []string{"No production record has actual figures yet, so variance is unavailable."}
	}

	v := dash.Variance
	return []string{
		fmt.Sprintf("Across %d completed forecasts, actual quantity is %s against plan.", v.CompletedRecords, formatSignedPct(v.QtyVariancePct)),
		fmt.Sprintf("Mean recovery rate is %s against plan.", formatSignedPct(v.RecoveryVariancePct)),
	}
}

func describeDays(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "due today"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}

func formatQty(v float64) string {
	return fmt.Sprintf("%.0f", v)
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func formatSignedPct(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var _ SummaryProvider = (*LocalProvider)(nil)
