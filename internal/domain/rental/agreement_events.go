package rental

import (
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type names for the rental agreement aggregate
const (
	EventAgreementCreated  = "rental.agreement_created"
	EventPaymentRecorded   = "rental.payment_recorded"
	EventAgreementSettled  = "rental.agreement_settled"
	EventAgreementReturned = "rental.agreement_returned"
)

// AgreementCreatedEvent is raised when a new agreement enters the system
type AgreementCreatedEvent struct {
	shared.BaseDomainEvent
	AgreementNumber string          `json:"agreement_number"`
	CustomerID      string          `json:"customer_id"`
	RentalItemID    string          `json:"rental_item_id"`
	Quantity        int             `json:"quantity"`
	TotalRentAmount decimal.Decimal `json:"total_rent_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
}

// NewAgreementCreatedEvent creates an AgreementCreatedEvent
func NewAgreementCreatedEvent(a *RentalAgreement) *AgreementCreatedEvent {
	return &AgreementCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventAgreementCreated, a.ID),
		AgreementNumber: a.AgreementNumber,
		CustomerID:      a.CustomerID.String(),
		RentalItemID:    a.RentalItemID.String(),
		Quantity:        a.Quantity,
		TotalRentAmount: a.TotalRentAmount,
		SecurityDeposit: a.SecurityDepositAmount,
	}
}

// PaymentRecordedEvent is raised for every recorded payment
type PaymentRecordedEvent struct {
	shared.BaseDomainEvent
	AgreementNumber    string          `json:"agreement_number"`
	AmountPaid         decimal.Decimal `json:"amount_paid"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	PaymentAccountID   string          `json:"payment_account_id"`
}

// NewPaymentRecordedEvent creates a PaymentRecordedEvent
func NewPaymentRecordedEvent(a *RentalAgreement, record *PaymentRecord) *PaymentRecordedEvent {
	return &PaymentRecordedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventPaymentRecorded, a.ID),
		AgreementNumber:    a.AgreementNumber,
		AmountPaid:         record.AmountPaid,
		OutstandingBalance: a.OutstandingBalance,
		PaymentAccountID:   record.PaymentAccountID.String(),
	}
}

// AgreementSettledEvent is raised when the outstanding balance reaches zero
type AgreementSettledEvent struct {
	shared.BaseDomainEvent
	AgreementNumber string          `json:"agreement_number"`
	TotalRentAmount decimal.Decimal `json:"total_rent_amount"`
}

// NewAgreementSettledEvent creates an AgreementSettledEvent
func NewAgreementSettledEvent(a *RentalAgreement) *AgreementSettledEvent {
	return &AgreementSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventAgreementSettled, a.ID),
		AgreementNumber: a.AgreementNumber,
		TotalRentAmount: a.TotalRentAmount,
	}
}

// AgreementReturnedEvent is raised on the terminal return transition
type AgreementReturnedEvent struct {
	shared.BaseDomainEvent
	AgreementNumber string          `json:"agreement_number"`
	PreviousStatus  AgreementStatus `json:"previous_status"`
	Condition       ReturnCondition `json:"condition"`
	DamageCharge    decimal.Decimal `json:"damage_charge"`
	DepositRefunded decimal.Decimal `json:"deposit_refunded"`
}

// NewAgreementReturnedEvent creates an AgreementReturnedEvent
func NewAgreementReturnedEvent(a *RentalAgreement, previous AgreementStatus) *AgreementReturnedEvent {
	return &AgreementReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventAgreementReturned, a.ID),
		AgreementNumber: a.AgreementNumber,
		PreviousStatus:  previous,
		Condition:       a.Return.Condition,
		DamageCharge:    a.Return.DamageChargeAmount,
		DepositRefunded: a.Return.SecurityDepositRefunded,
	}
}
