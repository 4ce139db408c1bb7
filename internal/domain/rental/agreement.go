package rental

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AgreementStatus is the lifecycle state of a rental agreement
type AgreementStatus string

const (
	AgreementActive    AgreementStatus = "active"
	AgreementCompleted AgreementStatus = "completed"
	AgreementOverdue   AgreementStatus = "overdue"
	AgreementReturned  AgreementStatus = "returned"
)

// IsValid checks if the status is a valid AgreementStatus
func (s AgreementStatus) IsValid() bool {
	switch s {
	case AgreementActive, AgreementCompleted, AgreementOverdue, AgreementReturned:
		return true
	}
	return false
}

// IsTerminal returns true once the agreement can no longer transition.
// Only "returned" is terminal; agreements are never deleted.
func (s AgreementStatus) IsTerminal() bool {
	return s == AgreementReturned
}

// CanRecordPayment returns true if payments can be recorded in this status
func (s AgreementStatus) CanRecordPayment() bool {
	return s == AgreementActive
}

// CanProcessReturn returns true if the agreement can be returned from this
// status. Active, overdue, and completed agreements can all come back.
func (s AgreementStatus) CanProcessReturn() bool {
	return s == AgreementActive || s == AgreementOverdue || s == AgreementCompleted
}

// RentalAgreement is the aggregate root for one rental contract. It owns the
// payment records, the installment schedule, and the terminal return record.
type RentalAgreement struct {
	shared.BaseAggregateRoot
	AgreementNumber            string          `json:"agreement_number"`
	CustomerID                 uuid.UUID       `json:"customer_id"`
	CustomerName               string          `json:"customer_name"`
	RentalItemID               uuid.UUID       `json:"rental_item_id"`
	ItemName                   string          `json:"item_name"`
	Quantity                   int             `json:"quantity"`
	PeriodType                 PeriodType      `json:"period_type"`
	StartDate                  time.Time       `json:"start_date"`
	EndDate                    *time.Time      `json:"end_date,omitempty"`
	RentAmount                 decimal.Decimal `json:"rent_amount"`
	ExpectedPeriods            int             `json:"expected_periods"`
	TotalRentAmount            decimal.Decimal `json:"total_rent_amount"`
	OutstandingBalance         decimal.Decimal `json:"outstanding_balance"`
	SecurityDepositAmount      decimal.Decimal `json:"security_deposit_amount"`
	SecurityDepositCollected   bool            `json:"security_deposit_collected"`
	SecurityDepositCollectedAt *time.Time      `json:"security_deposit_collected_at,omitempty"`
	Status                     AgreementStatus `json:"status"`
	PaymentRecords             PaymentRecords  `json:"payment_records"`
	ScheduleEntries            ScheduleEntries `json:"schedule_entries"`
	Return                     *ReturnDetails  `json:"return,omitempty"`
	Notes                      string          `json:"notes"`
}

// NewAgreementParams carries the inputs for creating an agreement
type NewAgreementParams struct {
	AgreementNumber string
	CustomerID      uuid.UUID
	CustomerName    string
	RentalItemID    uuid.UUID
	ItemName        string
	Quantity        int
	PeriodType      PeriodType
	StartDate       time.Time
	ExpectedPeriods int
	RentAmount      valueobject.Money
	SecurityDeposit valueobject.Money
	Notes           string
}

// NewRentalAgreement creates an agreement in the active state with the full
// rent outstanding and a generated installment schedule. Quantity
// availability is checked against the item by the caller before this runs.
func NewRentalAgreement(p NewAgreementParams) (*RentalAgreement, error) {
	if p.AgreementNumber == "" {
		return nil, shared.NewDomainError("INVALID_AGREEMENT_NUMBER", "Agreement number cannot be empty")
	}
	if p.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if p.RentalItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Rental item ID cannot be empty")
	}
	if p.Quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Rented quantity must be positive")
	}
	if !p.PeriodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD_TYPE", "Period type must be daily, weekly or monthly")
	}
	if p.ExpectedPeriods <= 0 {
		return nil, shared.NewDomainError("INVALID_PERIODS", "Expected period count must be positive")
	}
	if !p.RentAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Rent amount per period must be positive")
	}
	if p.SecurityDeposit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Security deposit cannot be negative")
	}

	total := p.RentAmount.MultiplyByInt(int64(p.ExpectedPeriods))

	agreement := &RentalAgreement{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		AgreementNumber:       p.AgreementNumber,
		CustomerID:            p.CustomerID,
		CustomerName:          p.CustomerName,
		RentalItemID:          p.RentalItemID,
		ItemName:              p.ItemName,
		Quantity:              p.Quantity,
		PeriodType:            p.PeriodType,
		StartDate:             p.StartDate,
		RentAmount:            p.RentAmount.Amount(),
		ExpectedPeriods:       p.ExpectedPeriods,
		TotalRentAmount:       total.Amount(),
		OutstandingBalance:    total.Amount(),
		SecurityDepositAmount: p.SecurityDeposit.Amount(),
		Status:                AgreementActive,
		PaymentRecords:        PaymentRecords{},
		ScheduleEntries:       GenerateSchedule(p.StartDate, p.PeriodType, p.ExpectedPeriods, p.RentAmount.Amount()),
		Notes:                 p.Notes,
	}

	agreement.AddDomainEvent(NewAgreementCreatedEvent(agreement))

	return agreement, nil
}

// MarkDepositCollected records that the security deposit was taken at
// creation time, against the given payment account.
func (a *RentalAgreement) MarkDepositCollected(at time.Time) error {
	if !a.SecurityDepositAmount.IsPositive() {
		return shared.NewDomainError("NO_DEPOSIT", "Agreement has no security deposit to collect")
	}
	a.SecurityDepositCollected = true
	a.SecurityDepositCollectedAt = &at
	a.UpdatedAt = time.Now()
	return nil
}

// RecordPayment appends a payment record and reduces the outstanding
// balance, floored at zero. Overpayment is accepted rather than rejected:
// advance payments are allowed and the floor keeps the balance invariant.
func (a *RentalAgreement) RecordPayment(amount valueobject.Money, paymentDate time.Time, accountID uuid.UUID, method PaymentMethod, periodIndex *int, notes string) (*PaymentRecord, error) {
	if !a.Status.CanRecordPayment() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot record payment on %s agreement", a.Status))
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "A payment account must be selected")
	}
	if method != "" && !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Unknown payment method")
	}

	record := NewPaymentRecord(amount, paymentDate, accountID, method, notes)
	if periodIndex != nil {
		record.PeriodIndex = periodIndex
		for i := range a.ScheduleEntries {
			if a.ScheduleEntries[i].PeriodIndex == *periodIndex {
				record.AmountDue = a.ScheduleEntries[i].AmountDue
				a.ScheduleEntries[i].Status = EntryStatusPaid
				break
			}
		}
	}
	a.PaymentRecords = append(a.PaymentRecords, record)

	a.OutstandingBalance = a.OutstandingBalance.Sub(amount.Amount())
	if a.OutstandingBalance.IsNegative() {
		a.OutstandingBalance = decimal.Zero
	}

	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewPaymentRecordedEvent(a, &record))
	if a.OutstandingBalance.IsZero() {
		a.AddDomainEvent(NewAgreementSettledEvent(a))
	}

	return &record, nil
}

// ProcessReturn writes the terminal return record and transitions the
// agreement to returned. Account-mapping preconditions are the caller's
// responsibility; this method enforces the state machine and refund bounds.
func (a *RentalAgreement) ProcessReturn(details ReturnDetails) error {
	if !a.Status.CanProcessReturn() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot process return on %s agreement", a.Status))
	}
	if !details.Condition.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", "Unknown return condition")
	}
	if details.DamageChargeAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Damage charge cannot be negative")
	}
	if details.RefundAccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "A refund account must be selected")
	}
	if !RefundWithinBounds(details.SecurityDepositRefunded, a.SecurityDepositAmount) {
		return shared.NewDomainError("INVALID_REFUND",
			fmt.Sprintf("Refund %s must be between 0 and the security deposit %s",
				details.SecurityDepositRefunded.StringFixed(2), a.SecurityDepositAmount.StringFixed(2)))
	}

	previousStatus := a.Status
	a.Return = &details
	a.Status = AgreementReturned
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgreementReturnedEvent(a, previousStatus))

	return nil
}

// MarkOverdue flags an active agreement whose schedule has slipped
func (a *RentalAgreement) MarkOverdue() error {
	if a.Status != AgreementActive {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark %s agreement overdue", a.Status))
	}
	a.Status = AgreementOverdue
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// MarkCompleted closes out an agreement whose rental term has ended.
// The item is still out; return processing remains available.
func (a *RentalAgreement) MarkCompleted(endDate time.Time) error {
	if a.Status != AgreementActive && a.Status != AgreementOverdue {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot complete %s agreement", a.Status))
	}
	a.Status = AgreementCompleted
	a.EndDate = &endDate
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// PaidAmount returns how much of the total rent has been paid
func (a *RentalAgreement) PaidAmount() decimal.Decimal {
	return a.TotalRentAmount.Sub(a.OutstandingBalance)
}

// PaymentStatus derives the display classification at the given time
func (a *RentalAgreement) PaymentStatus(now time.Time) PaymentStatus {
	return DerivePaymentStatus(a.OutstandingBalance, a.TotalRentAmount, a.ScheduleEntries, now)
}

// IsReturned returns true once the terminal return record exists
func (a *RentalAgreement) IsReturned() bool {
	return a.Status == AgreementReturned
}
