package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus classifies an agreement's payment position for display
type PaymentStatus string

const (
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusLate          PaymentStatus = "late"
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
)

// DerivePaymentStatus maps an agreement's balances and schedule to a payment
// classification. Pure function; deriving twice from the same snapshot yields
// the same result.
//
// The order of checks is load-bearing: a zero outstanding balance wins
// outright, and once any schedule entry is overdue, "late" takes precedence
// over both "partially_paid" and "unpaid".
func DerivePaymentStatus(outstanding, total decimal.Decimal, entries ScheduleEntries, now time.Time) PaymentStatus {
	if outstanding.IsZero() {
		return PaymentStatusPaid
	}

	paidAmount := total.Sub(outstanding)

	hasOverdue := false
	for _, entry := range entries {
		if entry.IsOverdue(now) {
			hasOverdue = true
			break
		}
	}

	if paidAmount.IsPositive() && paidAmount.LessThan(total) {
		if hasOverdue {
			return PaymentStatusLate
		}
		return PaymentStatusPartiallyPaid
	}

	if hasOverdue {
		return PaymentStatusLate
	}
	return PaymentStatusUnpaid
}
