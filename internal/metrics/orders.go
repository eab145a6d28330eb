package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// OrderDates selects the expected and actual completion dates of an order type.
type OrderDates[T any] struct {
	Expected func(T) *models.Date
	Actual   func(T) *models.Date
}

// PurchaseDelivery reads delivery dates from purchase orders.
var PurchaseDelivery = OrderDates[models.PurchaseOrder]{
	Expected: func(o models.PurchaseOrder) *models.Date { return o.ExpectedDeliveryDate },
	Actual:   func(o models.PurchaseOrder) *models.Date { return o.ActualDeliveryDate },
}

// SalesDispatch reads dispatch dates from sales orders.
var SalesDispatch = OrderDates[models.SalesOrder]{
	Expected: func(o models.SalesOrder) *models.Date { return o.ExpectedDispatchDate },
	Actual:   func(o models.SalesOrder) *models.Date { return o.ActualDispatchDate },
}

// Annotation carries the day counts shown next to an order. Nil means the
// value cannot be computed from the order's dates.
type Annotation struct {
	// DaysRemaining is expected date minus today, negative once overdue.
	DaysRemaining *int `json:"days_remaining"`
	// VarianceDays is actual minus expected date; positive means late.
	VarianceDays *int `json:"variance_days"`
}

// AnnotatedOrder pairs an order with its annotation.
type AnnotatedOrder[T any] struct {
	Order T `json:"order"`
	Annotation
}

// AnnotateOrder computes the day counts of one order. Only the calendar day
// of today matters, taken in today's own location.
func AnnotateOrder[T any](order T, today time.Time, dates OrderDates[T]) Annotation {
	var ann Annotation

	expected := pick(dates.Expected, order)
	if expected == nil {
		return ann
	}

	remaining := daysBetween(models.Civil(today), *expected)
	ann.DaysRemaining = &remaining

	if actual := pick(dates.Actual, order); actual != nil {
		variance := daysBetween(*expected, *actual)
		ann.VarianceDays = &variance
	}

	return ann
}

// AnnotateOrders annotates every order, preserving order.
func AnnotateOrders[T any](orders []T, today time.Time, dates OrderDates[T]) []Annotation {
	annotations := make([]Annotation, len(orders))
	for i, order := range orders {
		annotations[i] = AnnotateOrder(order, today, dates)
	}
	return annotations
}

// SortByUrgency pairs orders with their annotations and orders them soonest
// due first. Orders without a days-remaining value go last. The sort is
// stable and the inputs are left untouched.
func SortByUrgency[T any](orders []T, annotations []Annotation) []AnnotatedOrder[T] {
	sorted := make([]AnnotatedOrder[T], len(orders))
	for i, order := range orders {
		sorted[i].Order = order
		if i < len(annotations) {
			sorted[i].Annotation = annotations[i]
		}
	}

	slices.SortStableFunc(sorted, func(a, b AnnotatedOrder[T]) int {
		switch {
		case a.DaysRemaining == nil && b.DaysRemaining == nil:
			return 0
		case a.DaysRemaining == nil:
			return 1
		case b.DaysRemaining == nil:
			return -1
		}
		return cmp.Compare(*a.DaysRemaining, *b.DaysRemaining)
	})

	return sorted
}

func pick[T any](selector func(T) *models.Date, order T) *models.Date {
	if selector == nil {
		return nil
	}
	d := selector(order)
	if !d.Valid() {
		return nil
	}
	return d
}

// daysBetween counts whole calendar days from one date to another.
func daysBetween(from, to models.Date) int {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
