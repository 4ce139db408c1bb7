package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnCondition records the state of the item at return time
type ReturnCondition string

const (
	ReturnedSafely  ReturnCondition = "returned_safely"
	ReturnedDamaged ReturnCondition = "damaged"
	ReturnedLost    ReturnCondition = "lost"
)

// IsValid checks if the return condition is valid
func (c ReturnCondition) IsValid() bool {
	switch c {
	case ReturnedSafely, ReturnedDamaged, ReturnedLost:
		return true
	}
	return false
}

// RequiresDamageCharge reports whether a damage charge applies to this
// condition. The charge may still be zero; it just must be stated.
func (c ReturnCondition) RequiresDamageCharge() bool {
	return c == ReturnedDamaged || c == ReturnedLost
}

// ReturnDetails is the terminal return record written exactly once per
// agreement. After it is set the agreement is immutable except for display.
type ReturnDetails struct {
	ReturnDate              time.Time       `json:"return_date"`
	Condition               ReturnCondition `json:"condition"`
	DamageChargeAmount      decimal.Decimal `json:"damage_charge_amount"`
	DamageDescription       string          `json:"damage_description,omitempty"`
	SecurityDepositRefunded decimal.Decimal `json:"security_deposit_refunded"`
	RefundAccountID         uuid.UUID       `json:"refund_account_id"`
	Notes                   string          `json:"notes,omitempty"`
}

// SuggestedRefund computes the default security-deposit refund:
// max(0, deposit - damage charge). Never negative.
func SuggestedRefund(securityDeposit, damageCharge decimal.Decimal) decimal.Decimal {
	refund := securityDeposit.Sub(damageCharge)
	if refund.IsNegative() {
		return decimal.Zero
	}
	return refund
}

// RefundWithinBounds reports whether a caller-overridden refund amount is
// valid: within [0, security deposit].
func RefundWithinBounds(refund, securityDeposit decimal.Decimal) bool {
	return !refund.IsNegative() && refund.LessThanOrEqual(securityDeposit)
}
