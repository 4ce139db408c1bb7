package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SnapshotSource records which computation path produced a snapshot.
// Informational only: both paths yield the same canonical shape and callers
// never branch on it.
type SnapshotSource string

const (
	SourceBackend  SnapshotSource = "backend"
	SourceFallback SnapshotSource = "fallback"
)

// Period is an optional date range for snapshot queries
type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Contains reports whether t falls inside the period (inclusive bounds;
// nil bounds are open).
func (p Period) Contains(t time.Time) bool {
	if p.Start != nil && t.Before(*p.Start) {
		return false
	}
	if p.End != nil && t.After(*p.End) {
		return false
	}
	return true
}

// CustomerFinancialSnapshot is a point-in-time aggregation per customer over
// a date range. Derived on every query, never persisted.
type CustomerFinancialSnapshot struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	Period         Period          `json:"period"`
	WalkInRevenue  decimal.Decimal `json:"walk_in_revenue"`
	OrderRevenue   decimal.Decimal `json:"order_revenue"`
	RentalRevenue  decimal.Decimal `json:"rental_revenue"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
	TotalDiscounts decimal.Decimal `json:"total_discounts"`
	NetEarnings    decimal.Decimal `json:"net_earnings"`
	CustomerDue    decimal.Decimal `json:"customer_due"`
	SalesCount     int             `json:"sales_count"`
	InvoiceCount   int             `json:"invoice_count"`
	RentalCount    int             `json:"rental_count"`
	Source         SnapshotSource  `json:"source"`
}

// finalize fills the derived totals from the channel figures
func (s *CustomerFinancialSnapshot) finalize() {
	s.TotalEarnings = s.WalkInRevenue.Add(s.OrderRevenue).Add(s.RentalRevenue)
	s.NetEarnings = s.TotalEarnings.Sub(s.TotalDiscounts)
}
