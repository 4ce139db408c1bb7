package rental

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a rental payment was made
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheque       PaymentMethod = "cheque"
	MethodCard         PaymentMethod = "card"
	MethodOther        PaymentMethod = "other"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodCheque, MethodCard, MethodOther:
		return true
	}
	return false
}

// PaymentRecord is one actual payment event against an agreement.
// Append-only; created only through RecordPayment.
type PaymentRecord struct {
	ID               uuid.UUID       `json:"id"`
	AmountDue        decimal.Decimal `json:"amount_due"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	PaymentDate      time.Time       `json:"payment_date"`
	PaymentMethod    PaymentMethod   `json:"payment_method"`
	PaymentAccountID uuid.UUID       `json:"payment_account_id"`
	PeriodIndex      *int            `json:"period_index,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// NewPaymentRecord creates a payment record for the given amount and account
func NewPaymentRecord(amount valueobject.Money, paymentDate time.Time, accountID uuid.UUID, method PaymentMethod, notes string) PaymentRecord {
	return PaymentRecord{
		ID:               uuid.New(),
		AmountPaid:       amount.Amount(),
		PaymentDate:      paymentDate,
		PaymentMethod:    method,
		PaymentAccountID: accountID,
		Notes:            notes,
	}
}

// PaymentRecords is stored as JSONB on the agreement
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer for JSONB storage
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// TotalPaid sums the paid amounts across all records
func (p PaymentRecords) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, record := range p {
		total = total.Add(record.AmountPaid)
	}
	return total
}
