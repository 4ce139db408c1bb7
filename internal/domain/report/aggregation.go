package report

import (
	"github.com/google/uuid"
	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// BackendStats is the raw statistics object returned by the external
// aggregate endpoint. The contract evolved, so the same quantity may arrive
// under a legacy name; NormalizeBackendStats collapses them into the
// canonical snapshot shape.
type BackendStats struct {
	WalkInRevenue *decimal.Decimal `json:"walk_in_sales_revenue"`
	OrderRevenue  *decimal.Decimal `json:"order_sales_revenue"`
	// Legacy alias for OrderRevenue, kept only at this boundary
	TotalInvoiceRevenue *decimal.Decimal `json:"total_invoice_revenue"`
	RentalRevenue       *decimal.Decimal `json:"rental_revenue"`
	TotalDiscounts      *decimal.Decimal `json:"total_discounts"`
	CustomerDue         *decimal.Decimal `json:"customer_due"`
	SalesCount          *int             `json:"sales_count"`
	InvoiceCount        *int             `json:"invoice_count"`
	RentalCount         *int             `json:"rental_count"`
}

// NormalizeBackendStats converts the backend statistics object into the
// canonical snapshot. The second return value is false when a required field
// is absent, signalling the caller to fall through to local recomputation.
func NormalizeBackendStats(customerID uuid.UUID, period Period, stats *BackendStats) (*CustomerFinancialSnapshot, bool) {
	if stats == nil {
		return nil, false
	}

	orderRevenue := stats.OrderRevenue
	if orderRevenue == nil {
		orderRevenue = stats.TotalInvoiceRevenue
	}

	if stats.WalkInRevenue == nil || orderRevenue == nil || stats.RentalRevenue == nil ||
		stats.TotalDiscounts == nil || stats.CustomerDue == nil {
		return nil, false
	}

	snapshot := &CustomerFinancialSnapshot{
		CustomerID:     customerID,
		Period:         period,
		WalkInRevenue:  *stats.WalkInRevenue,
		OrderRevenue:   *orderRevenue,
		RentalRevenue:  *stats.RentalRevenue,
		TotalDiscounts: *stats.TotalDiscounts,
		CustomerDue:    *stats.CustomerDue,
		Source:         SourceBackend,
	}
	if stats.SalesCount != nil {
		snapshot.SalesCount = *stats.SalesCount
	}
	if stats.InvoiceCount != nil {
		snapshot.InvoiceCount = *stats.InvoiceCount
	}
	if stats.RentalCount != nil {
		snapshot.RentalCount = *stats.RentalCount
	}
	snapshot.finalize()

	return snapshot, true
}

// ComputeFallbackSnapshot recomputes the snapshot from raw records, mirroring
// what the backend aggregate would have returned:
//
//   - walk-in revenue is gross: sale totals plus the discounts given on them
//   - order sales count toward revenue only when their invoice is paid;
//     unpaid invoices contribute to customer due instead
//   - rental revenue is the sum of recorded payments per agreement
//   - customer due sums invoices still in the issued state
func ComputeFallbackSnapshot(customerID uuid.UUID, period Period, sales []Sale, invoices []Invoice, agreements []rental.RentalAgreement) *CustomerFinancialSnapshot {
	snapshot := &CustomerFinancialSnapshot{
		CustomerID:     customerID,
		Period:         period,
		WalkInRevenue:  decimal.Zero,
		OrderRevenue:   decimal.Zero,
		RentalRevenue:  decimal.Zero,
		TotalDiscounts: decimal.Zero,
		CustomerDue:    decimal.Zero,
		Source:         SourceFallback,
	}

	invoiceStatus := make(map[uuid.UUID]InvoiceStatus, len(invoices))
	for _, invoice := range invoices {
		invoiceStatus[invoice.ID] = invoice.Status
	}

	for _, sale := range sales {
		if !period.Contains(sale.SaleDate) {
			continue
		}
		snapshot.SalesCount++
		switch sale.SaleType {
		case SaleWalkIn:
			snapshot.WalkInRevenue = snapshot.WalkInRevenue.Add(sale.TotalAmount).Add(sale.TotalDiscount)
			snapshot.TotalDiscounts = snapshot.TotalDiscounts.Add(sale.TotalDiscount)
		case SaleOrder:
			if sale.InvoiceID == nil || invoiceStatus[*sale.InvoiceID] != InvoicePaid {
				continue
			}
			snapshot.OrderRevenue = snapshot.OrderRevenue.Add(sale.TotalAmount).Add(sale.TotalDiscount)
			snapshot.TotalDiscounts = snapshot.TotalDiscounts.Add(sale.TotalDiscount)
		}
	}

	for _, invoice := range invoices {
		if !period.Contains(invoice.IssueDate) {
			continue
		}
		snapshot.InvoiceCount++
		if invoice.Status == InvoiceIssued {
			snapshot.CustomerDue = snapshot.CustomerDue.Add(invoice.TotalAmount)
		}
	}

	for _, agreement := range agreements {
		snapshot.RentalCount++
		snapshot.RentalRevenue = snapshot.RentalRevenue.Add(agreement.PaymentRecords.TotalPaid())
	}

	snapshot.finalize()

	return snapshot
}
