package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apprental "github.com/rentworks/backend/internal/application/rental"
	"github.com/rentworks/backend/internal/domain/rental"
)

// CreateAgreementRequest is the payload for creating a rental agreement
type CreateAgreementRequest struct {
	CustomerID       string          `json:"customer_id" binding:"required,uuid"`
	CustomerName     string          `json:"customer_name" binding:"required,max=200"`
	RentalItemID     string          `json:"rental_item_id" binding:"required,uuid"`
	Quantity         int             `json:"quantity" binding:"required,min=1"`
	PeriodType       string          `json:"period_type" binding:"required,oneof=daily weekly monthly"`
	StartDate        time.Time       `json:"start_date" binding:"required"`
	ExpectedPeriods  int             `json:"expected_periods" binding:"required,min=1"`
	RentAmount       decimal.Decimal `json:"rent_amount" binding:"required"`
	SecurityDeposit  decimal.Decimal `json:"security_deposit"`
	CollectDeposit   bool            `json:"collect_deposit"`
	DepositAccountID *string         `json:"deposit_account_id" binding:"omitempty,uuid"`
	Notes            string          `json:"notes" binding:"max=2000"`
}

// ToCommand converts the request to an application command
func (r *CreateAgreementRequest) ToCommand() (apprental.CreateAgreementCommand, error) {
	customerID, err := uuid.Parse(r.CustomerID)
	if err != nil {
		return apprental.CreateAgreementCommand{}, err
	}
	itemID, err := uuid.Parse(r.RentalItemID)
	if err != nil {
		return apprental.CreateAgreementCommand{}, err
	}
	cmd := apprental.CreateAgreementCommand{
		CustomerID:      customerID,
		CustomerName:    r.CustomerName,
		RentalItemID:    itemID,
		Quantity:        r.Quantity,
		PeriodType:      rental.PeriodType(r.PeriodType),
		StartDate:       r.StartDate,
		ExpectedPeriods: r.ExpectedPeriods,
		RentAmount:      r.RentAmount,
		SecurityDeposit: r.SecurityDeposit,
		CollectDeposit:  r.CollectDeposit,
		Notes:           r.Notes,
	}
	if r.DepositAccountID != nil {
		accountID, err := uuid.Parse(*r.DepositAccountID)
		if err != nil {
			return apprental.CreateAgreementCommand{}, err
		}
		cmd.DepositAccountID = &accountID
	}
	return cmd, nil
}

// RecordPaymentRequest is the payload for recording a payment
type RecordPaymentRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate      time.Time       `json:"payment_date" binding:"required"`
	PaymentAccountID string          `json:"payment_account_id" binding:"required,uuid"`
	PaymentMethod    string          `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer cheque card other"`
	PeriodIndex      *int            `json:"period_index" binding:"omitempty,min=0"`
	Notes            string          `json:"notes" binding:"max=2000"`
}

// ToCommand converts the request to an application command
func (r *RecordPaymentRequest) ToCommand() (apprental.RecordPaymentCommand, error) {
	accountID, err := uuid.Parse(r.PaymentAccountID)
	if err != nil {
		return apprental.RecordPaymentCommand{}, err
	}
	return apprental.RecordPaymentCommand{
		Amount:           r.Amount,
		PaymentDate:      r.PaymentDate,
		PaymentAccountID: accountID,
		PaymentMethod:    rental.PaymentMethod(r.PaymentMethod),
		PeriodIndex:      r.PeriodIndex,
		Notes:            r.Notes,
	}, nil
}

// ProcessReturnRequest is the payload for processing a return
type ProcessReturnRequest struct {
	ReturnDate         time.Time        `json:"return_date" binding:"required"`
	Condition          string           `json:"condition" binding:"required,oneof=returned_safely damaged lost"`
	DamageChargeAmount decimal.Decimal  `json:"damage_charge_amount"`
	DamageDescription  string           `json:"damage_description" binding:"max=2000"`
	RefundOverride     *decimal.Decimal `json:"refund_override"`
	RefundAccountID    string           `json:"refund_account_id" binding:"required,uuid"`
	Notes              string           `json:"notes" binding:"max=2000"`
}

// ToCommand converts the request to an application command
func (r *ProcessReturnRequest) ToCommand() (apprental.ProcessReturnCommand, error) {
	accountID, err := uuid.Parse(r.RefundAccountID)
	if err != nil {
		return apprental.ProcessReturnCommand{}, err
	}
	return apprental.ProcessReturnCommand{
		ReturnDate:         r.ReturnDate,
		Condition:          rental.ReturnCondition(r.Condition),
		DamageChargeAmount: r.DamageChargeAmount,
		DamageDescription:  r.DamageDescription,
		RefundOverride:     r.RefundOverride,
		RefundAccountID:    accountID,
		Notes:              r.Notes,
	}, nil
}

// CreateItemRequest is the payload for registering a rentable item
type CreateItemRequest struct {
	Name       string          `json:"name" binding:"required,max=200"`
	SKU        string          `json:"sku" binding:"max=50"`
	RentalRate decimal.Decimal `json:"rental_rate" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
}

// AgreementListRequest is the query for listing agreements
type AgreementListRequest struct {
	ListRequest
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	ItemID     string `form:"item_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=active completed overdue returned"`
	FromDate   string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate     string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
}

// ToFilter converts the request to a domain filter
func (r *AgreementListRequest) ToFilter() (rental.AgreementFilter, error) {
	r.ApplyDefaults()
	filter := rental.AgreementFilter{
		Search:   r.Search,
		Page:     r.Page,
		PageSize: r.PageSize,
		OrderBy:  r.OrderBy,
		OrderDir: r.OrderDir,
	}
	if r.CustomerID != "" {
		id, err := uuid.Parse(r.CustomerID)
		if err != nil {
			return filter, err
		}
		filter.CustomerID = &id
	}
	if r.ItemID != "" {
		id, err := uuid.Parse(r.ItemID)
		if err != nil {
			return filter, err
		}
		filter.ItemID = &id
	}
	if r.Status != "" {
		status := rental.AgreementStatus(r.Status)
		filter.Status = &status
	}
	if r.FromDate != "" {
		from, err := time.Parse("2006-01-02", r.FromDate)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &from
	}
	if r.ToDate != "" {
		to, err := time.Parse("2006-01-02", r.ToDate)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &to
	}
	return filter, nil
}

// AgreementResponse is the wire shape of one rental agreement
type AgreementResponse struct {
	ID                         uuid.UUID              `json:"id"`
	AgreementNumber            string                 `json:"agreement_number"`
	CustomerID                 uuid.UUID              `json:"customer_id"`
	CustomerName               string                 `json:"customer_name"`
	RentalItemID               uuid.UUID              `json:"rental_item_id"`
	ItemName                   string                 `json:"item_name"`
	Quantity                   int                    `json:"quantity"`
	PeriodType                 rental.PeriodType      `json:"period_type"`
	StartDate                  time.Time              `json:"start_date"`
	EndDate                    *time.Time             `json:"end_date,omitempty"`
	RentAmount                 decimal.Decimal        `json:"rent_amount"`
	ExpectedPeriods            int                    `json:"expected_periods"`
	TotalRentAmount            decimal.Decimal        `json:"total_rent_amount"`
	PaidAmount                 decimal.Decimal        `json:"paid_amount"`
	OutstandingBalance         decimal.Decimal        `json:"outstanding_balance"`
	SecurityDepositAmount      decimal.Decimal        `json:"security_deposit_amount"`
	SecurityDepositCollected   bool                   `json:"security_deposit_collected"`
	SecurityDepositCollectedAt *time.Time             `json:"security_deposit_collected_at,omitempty"`
	Status                     rental.AgreementStatus `json:"status"`
	PaymentStatus              rental.PaymentStatus   `json:"payment_status"`
	SuggestedRefund            decimal.Decimal        `json:"suggested_refund"`
	PaymentRecords             rental.PaymentRecords  `json:"payment_records"`
	ScheduleEntries            rental.ScheduleEntries `json:"schedule_entries"`
	Return                     *rental.ReturnDetails  `json:"return,omitempty"`
	Notes                      string                 `json:"notes,omitempty"`
	Version                    int                    `json:"version"`
	CreatedAt                  time.Time              `json:"created_at"`
	UpdatedAt                  time.Time              `json:"updated_at"`
}

// NewAgreementResponse maps an application view to the wire shape
func NewAgreementResponse(view apprental.AgreementView) AgreementResponse {
	a := view.Agreement
	return AgreementResponse{
		ID:                         a.ID,
		AgreementNumber:            a.AgreementNumber,
		CustomerID:                 a.CustomerID,
		CustomerName:               a.CustomerName,
		RentalItemID:               a.RentalItemID,
		ItemName:                   a.ItemName,
		Quantity:                   a.Quantity,
		PeriodType:                 a.PeriodType,
		StartDate:                  a.StartDate,
		EndDate:                    a.EndDate,
		RentAmount:                 a.RentAmount,
		ExpectedPeriods:            a.ExpectedPeriods,
		TotalRentAmount:            a.TotalRentAmount,
		PaidAmount:                 view.PaidAmount,
		OutstandingBalance:         a.OutstandingBalance,
		SecurityDepositAmount:      a.SecurityDepositAmount,
		SecurityDepositCollected:   a.SecurityDepositCollected,
		SecurityDepositCollectedAt: a.SecurityDepositCollectedAt,
		Status:                     a.Status,
		PaymentStatus:              view.PaymentStatus,
		SuggestedRefund:            view.SuggestedRefund,
		PaymentRecords:             a.PaymentRecords,
		ScheduleEntries:            a.ScheduleEntries,
		Return:                     a.Return,
		Notes:                      a.Notes,
		Version:                    a.Version,
		CreatedAt:                  a.CreatedAt,
		UpdatedAt:                  a.UpdatedAt,
	}
}
