package warehouse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	bigqueryapi "google.golang.org/api/bigquery/v2"

	"github.com/kutoka/fairoils-bi/internal/domain/models"
)

// row is one result row keyed by column name. Values are what the BigQuery
// REST API returns: strings for scalars, nil for NULL.
type row map[string]interface{}

func decodeRows(schema *bigqueryapi.TableSchema, rows []*bigqueryapi.TableRow) []row {
	if schema == nil {
		return nil
	}

	out := make([]row, 0, len(rows))
	for _, tr := range rows {
		if tr == nil {
			continue
		}
		r := make(row, len(schema.Fields))
		for i, field := range schema.Fields {
			if i >= len(tr.F) || tr.F[i] == nil {
				r[field.Name] = nil
				continue
			}
			r[field.Name] = tr.F[i].V
		}
		out = append(out, r)
	}
	return out
}

func (r row) str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// float treats missing and non-numeric cells as zero.
func (r row) float(key string) float64 {
	if v := r.optFloat(key); v != nil {
		return *v
	}
	return 0
}

func (r row) optFloat(key string) *float64 {
	str := strings.TrimSpace(r.str(key))
	if str == "" {
		return nil
	}
	v, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (r row) int(key string) int {
	return int(math.Round(r.float(key)))
}

// date reads DATE columns ("2025-09-21") as well as TIMESTAMP columns, which
// the API encodes as epoch seconds in scientific notation.
func (r row) date(key string) *models.Date {
	str := strings.TrimSpace(r.str(key))
	if str == "" {
		return nil
	}
	if d, err := models.ParseDate(str); err == nil {
		return &d
	}
	if secs, err := strconv.ParseFloat(str, 64); err == nil {
		d := models.Civil(time.Unix(int64(secs), 0).UTC())
		return &d
	}
	return nil
}

func decodeFactory(r row) models.Factory {
	return models.Factory{
		ID:            r.str("id"),
		Name:          r.str("name"),
		Location:      r.str("location"),
		DailyCapacity: r.float("daily_capacity"),
		Status:        models.FactoryStatus(r.str("status")),
	}
}

func decodeProductionRecord(r row) models.ProductionRecord {
	return models.ProductionRecord{
		ID:                 r.str("id"),
		FactoryID:          r.str("factory_id"),
		Product:            r.str("product"),
		Week:               r.int("week"),
		Year:               r.int("year"),
		Qty:                r.float("qty"),
		RecoveryRate:       r.float("recovery_rate"),
		ActiveDays:         r.int("active_days"),
		StartDate:          r.date("start_date"),
		ActualQty:          r.optFloat("actual_qty"),
		ActualRecoveryRate: r.optFloat("actual_recovery_rate"),
	}
}

func decodePurchaseOrder(r row) models.PurchaseOrder {
	return models.PurchaseOrder{
		ID:                   r.str("id"),
		Supplier:             r.str("supplier"),
		PONumber:             r.str("po_number"),
		Product:              r.str("product"),
		Qty:                  r.float("qty"),
		OrderDate:            r.date("order_date"),
		ExpectedDeliveryDate: r.date("expected_delivery_date"),
		ActualDeliveryDate:   r.date("actual_delivery_date"),
		Status:               models.PurchaseOrderStatus(r.str("status")),
	}
}

func decodeSalesOrder(r row) models.SalesOrder {
	return models.SalesOrder{
		ID:                   r.str("id"),
		Client:               r.str("client"),
		SalesOrderNumber:     r.str("sales_order_number"),
		ClientPONumber:       r.str("client_po_number"),
		Product:              r.str("product"),
		Qty:                  r.float("qty"),
		OrderDate:            r.date("order_date"),
		ExpectedDispatchDate: r.date("expected_dispatch_date"),
		ActualDispatchDate:   r.date("actual_dispatch_date"),
		Status:               models.SalesOrderStatus(r.str("status")),
	}
}

func encodeDate(d *models.Date) bigqueryapi.JsonValue {
	if !d.Valid() {
		return nil
	}
	return d.String()
}

func encodeFloat(v *float64) bigqueryapi.JsonValue {
	if v == nil {
		return nil
	}
	return *v
}

func encodeFactory(f models.Factory) map[string]bigqueryapi.JsonValue {
	return map[string]bigqueryapi.JsonValue{
		"id":             f.ID,
		"name":           f.Name,
		"location":       f.Location,
		"daily_capacity": f.DailyCapacity,
		"status":         string(f.Status),
	}
}

func encodeProductionRecord(p models.ProductionRecord, now time.Time) map[string]bigqueryapi.JsonValue {
	return map[string]bigqueryapi.JsonValue{
		"id":                   p.ID,
		"factory_id":           p.FactoryID,
		"product":              p.Product,
		"week":                 p.Week,
		"year":                 p.Year,
		"qty":                  p.Qty,
		"recovery_rate":        p.RecoveryRate,
		"active_days":          p.ActiveDays,
		"start_date":           encodeDate(p.StartDate),
		"actual_qty":           encodeFloat(p.ActualQty),
		"actual_recovery_rate": encodeFloat(p.ActualRecoveryRate),
		"timestamp":            now.UTC().Format(time.RFC3339),
	}
}

func encodePurchaseOrder(o models.PurchaseOrder, now time.Time) map[string]bigqueryapi.JsonValue {
	return map[string]bigqueryapi.JsonValue{
		"id":                     o.ID,
		"supplier":               o.Supplier,
		"po_number":              o.PONumber,
		"product":                o.Product,
		"qty":                    o.Qty,
		"order_date":             encodeDate(o.OrderDate),
		"expected_delivery_date": encodeDate(o.ExpectedDeliveryDate),
		"actual_delivery_date":   encodeDate(o.ActualDeliveryDate),
		"status":                 string(o.Status),
		"timestamp":              now.UTC().Format(time.RFC3339),
	}
}

func encodeSalesOrder(o models.SalesOrder, now time.Time) map[string]bigqueryapi.JsonValue {
	return map[string]bigqueryapi.JsonValue{
		"id":                     o.ID,
		"client":                 o.Client,
		"sales_order_number":     o.SalesOrderNumber,
		"client_po_number":       o.ClientPONumber,
		"product":                o.Product,
		"qty":                    o.Qty,
		"order_date":             encodeDate(o.OrderDate),
		"expected_dispatch_date": encodeDate(o.ExpectedDispatchDate),
		"actual_dispatch_date":   encodeDate(o.ActualDispatchDate),
		"status":                 string(o.Status),
		"timestamp":              now.UTC().Format(time.RFC3339),
	}
}
