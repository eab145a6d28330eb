package metrics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

const (
	// UnknownProduct buckets sales orders without a product name.
	UnknownProduct = "Unknown"
	// DefaultTopProducts is used when ComputeTopProducts gets a non-positive limit.
	DefaultTopProducts = 5
	// DefaultRecentSales is the number of orders shown in the recent sales list.
	DefaultRecentSales = 8
)

// ProductTotal is the summed sales quantity of one product.
type ProductTotal struct {
	Product string  `json:"product"`
	Qty     float64 `json:"qty"`
}

// ComputeTopProducts sums sales qty per product and returns the largest
// totals first. Equal totals keep the order in which the product was first seen.
func ComputeTopProducts(sales []models.SalesOrder, limit int) []ProductTotal {
	if limit <= 0 {
		limit = DefaultTopProducts
	}

	totals := make([]ProductTotal, 0)
	index := make(map[string]int)

	for _, order := range sales {
		product := order.Product
		if strings.TrimSpace(product) == "" {
			product = UnknownProduct
		}

		pos, ok := index[product]
		if !ok {
			pos = len(totals)
			index[product] = pos
			totals = append(totals, ProductTotal{Product: product})
		}
		totals[pos].Qty += quantity(order.Qty)
	}

	slices.SortStableFunc(totals, func(a, b ProductTotal) int {
		return cmp.Compare(b.Qty, a.Qty)
	})

	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

// RecentSales returns at most n sales orders from the head of the list.
func RecentSales(sales []models.SalesOrder, n int) []models.SalesOrder {
	if n <= 0 {
		n = DefaultRecentSales
	}
	if len(sales) < n {
		n = len(sales)
	}
	return append(make([]models.SalesOrder, 0, n), sales[:n]...)
}
