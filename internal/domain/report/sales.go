package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleType is the sales channel a sale came through
type SaleType string

const (
	SaleWalkIn SaleType = "walk-in"
	SaleOrder  SaleType = "order"
)

// InvoiceStatus is the billing state of an invoice
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// Sale is the read model of one sale, as consumed by the aggregator
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	SaleType      SaleType        `json:"sale_type"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	InvoiceID     *uuid.UUID      `json:"invoice_id,omitempty"`
	SaleDate      time.Time       `json:"sale_date"`
}

// Invoice is the read model of one invoice
type Invoice struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      InvoiceStatus   `json:"status"`
	IssueDate   time.Time       `json:"issue_date"`
}

// SalesRepository provides the raw records the fallback aggregation needs
type SalesRepository interface {
	FindSalesByCustomer(ctx context.Context, customerID uuid.UUID, period Period) ([]Sale, error)
	FindInvoicesByCustomer(ctx context.Context, customerID uuid.UUID, period Period) ([]Invoice, error)
}
