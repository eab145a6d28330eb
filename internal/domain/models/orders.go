package models

// PurchaseOrderStatus tracks an inbound raw-material order.
type PurchaseOrderStatus string

const (
	PurchasePending   PurchaseOrderStatus = "Pending"
	PurchaseInTransit PurchaseOrderStatus = "In Transit"
	PurchaseCustoms   PurchaseOrderStatus = "Customs"
	PurchaseDelivered PurchaseOrderStatus = "Delivered"
	PurchaseOverdue   PurchaseOrderStatus = "Overdue"
	PurchaseCancelled PurchaseOrderStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseInTransit, PurchaseCustoms, PurchaseDelivered, PurchaseOverdue, PurchaseCancelled:
		return true
	}
	return false
}

// SalesOrderStatus tracks an outbound client order.
type SalesOrderStatus string

const (
	SalesPlanned      SalesOrderStatus = "Planned"
	SalesInProduction SalesOrderStatus = "In Production"
	SalesDispatched   SalesOrderStatus = "Dispatched"
	SalesOverdue      SalesOrderStatus = "Overdue"
	SalesCancelled    SalesOrderStatus = "Cancelled"
)

// Valid reports whether s is a known status.
func (s SalesOrderStatus) Valid() bool {
	switch s {
	case SalesPlanned, SalesInProduction, SalesDispatched, SalesOverdue, SalesCancelled:
		return true
	}
	return false
}

// PurchaseOrder is a supplier order for raw material.
type PurchaseOrder struct {
	ID                   string              `json:"id"`
	Supplier             string              `json:"supplier"`
	PONumber             string              `json:"po_number"`
	Product              string              `json:"product"`
	Qty                  float64             `json:"qty"`
	OrderDate            *Date               `json:"order_date"`
	ExpectedDeliveryDate *Date               `json:"expected_delivery_date"`
	ActualDeliveryDate   *Date               `json:"actual_delivery_date"`
	Status               PurchaseOrderStatus `json:"status"`
}

// Completed is decided by status alone, dates are not consulted.
func (o PurchaseOrder) Completed() bool {
	return o.Status == PurchaseDelivered
}

// SalesOrder is a client order for finished product.
type SalesOrder struct {
	ID                   string           `json:"id"`
	Client               string           `json:"client"`
	SalesOrderNumber     string           `json:"sales_order_number"`
	ClientPONumber       string           `json:"client_po_number"`
	Product              string           `json:"product"`
	Qty                  float64          `json:"qty"`
	OrderDate            *Date            `json:"order_date"`
	ExpectedDispatchDate *Date            `json:"expected_dispatch_date"`
	ActualDispatchDate   *Date            `json:"actual_dispatch_date"`
	Status               SalesOrderStatus `json:"status"`
}

// Completed is decided by status alone, dates are not consulted.
func (o SalesOrder) Completed() bool {
	return o.Status == SalesDispatched
}

// PurchaseOrderInput is the create payload for a purchase order.
type PurchaseOrderInput struct {
	Supplier             string              `json:"supplier" validate:"required,notblank"`
	PONumber             string              `json:"po_number" validate:"required,notblank"`
	Product              string              `json:"product" validate:"required,notblank"`
	Qty                  float64             `json:"qty" validate:"required,gt=0"`
	OrderDate            *Date               `json:"order_date"`
	ExpectedDeliveryDate *Date               `json:"expected_delivery_date"`
	ActualDeliveryDate   *Date               `json:"actual_delivery_date"`
	Status               PurchaseOrderStatus `json:"status"`
}

// Validate checks the documented required fields.
func (in PurchaseOrderInput) Validate() error {
	var invalid []string
	if in.Status != "" && !in.Status.Valid() {
		invalid = append(invalid, "status")
	}
	return validateInput("purchase order", in, invalid...)
}

// SalesOrderInput is the create payload for a sales order.
type SalesOrderInput struct {
	Client               string           `json:"client" validate:"required,notblank"`
	SalesOrderNumber     string           `json:"sales_order_number" validate:"required,notblank"`
	ClientPONumber       string           `json:"client_po_number"`
	Product              string           `json:"product" validate:"required,notblank"`
	Qty                  float64          `json:"qty" validate:"required,gt=0"`
	OrderDate            *Date            `json:"order_date"`
	ExpectedDispatchDate *Date            `json:"expected_dispatch_date"`
	ActualDispatchDate   *Date            `json:"actual_dispatch_date"`
	Status               SalesOrderStatus `json:"status"`
}

// Validate checks the documented required fields.
func (in SalesOrderInput) Validate() error {
	var invalid []string
	if in.Status != "" && !in.Status.Valid() {
		invalid = append(invalid, "status")
	}
	return validateInput("sales order", in, invalid...)
}
