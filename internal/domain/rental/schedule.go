package rental

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the rental billing cadence
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
)

// IsValid checks if the period type is valid
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Next returns the due date one period after the given date
func (p PeriodType) Next(from time.Time) time.Time {
	switch p {
	case PeriodDaily:
		return from.AddDate(0, 0, 1)
	case PeriodWeekly:
		return from.AddDate(0, 0, 7)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// ScheduleEntryStatus is the stored state of one expected installment.
// "late" may be stamped by the backend; otherwise lateness is derived from
// the due date at read time.
type ScheduleEntryStatus string

const (
	EntryStatusPaid   ScheduleEntryStatus = "paid"
	EntryStatusLate   ScheduleEntryStatus = "late"
	EntryStatusUnpaid ScheduleEntryStatus = "unpaid"
)

// ScheduleEntry is one expected installment of an agreement
type ScheduleEntry struct {
	PeriodIndex int                 `json:"period_index"`
	DueDate     time.Time           `json:"due_date"`
	AmountDue   decimal.Decimal     `json:"amount_due"`
	Status      ScheduleEntryStatus `json:"status"`
}

// IsOverdue reports whether the entry counts as overdue at the given time:
// explicitly late, or still unpaid with a due date strictly in the past.
func (e ScheduleEntry) IsOverdue(now time.Time) bool {
	if e.Status == EntryStatusLate {
		return true
	}
	return e.Status == EntryStatusUnpaid && e.DueDate.Before(now)
}

// ScheduleEntries is stored as JSONB on the agreement
type ScheduleEntries []ScheduleEntry

// Value implements driver.Valuer for JSONB storage
func (s ScheduleEntries) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *ScheduleEntries) Scan(value interface{}) error {
	if value == nil {
		*s = ScheduleEntries{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ScheduleEntries: unsupported type")
	}

	if len(bytes) == 0 {
		*s = ScheduleEntries{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// GenerateSchedule builds equal installments starting one period after the
// start date. Entry i is due at start + (i+1) periods and begins unpaid.
func GenerateSchedule(start time.Time, periodType PeriodType, periods int, amountPerPeriod decimal.Decimal) ScheduleEntries {
	entries := make(ScheduleEntries, 0, periods)
	due := start
	for i := 0; i < periods; i++ {
		due = periodType.Next(due)
		entries = append(entries, ScheduleEntry{
			PeriodIndex: i + 1,
			DueDate:     due,
			AmountDue:   amountPerPeriod,
			Status:      EntryStatusUnpaid,
		})
	}
	return entries
}
