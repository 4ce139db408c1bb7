package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
)

// RentalAgreementModel is the persistence model for the RentalAgreement
// aggregate root. The return record is flattened into nullable columns; it
// exists exactly when ReturnDate is set.
type RentalAgreementModel struct {
	AggregateModel
	AgreementNumber            string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID                 uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName               string                 `gorm:"type:varchar(200);not null"`
	RentalItemID               uuid.UUID              `gorm:"type:uuid;not null;index"`
	ItemName                   string                 `gorm:"type:varchar(200);not null"`
	Quantity                   int                    `gorm:"not null"`
	PeriodType                 rental.PeriodType      `gorm:"type:varchar(10);not null"`
	StartDate                  time.Time              `gorm:"not null;index"`
	EndDate                    *time.Time             `gorm:"index"`
	RentAmount                 decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	ExpectedPeriods            int                    `gorm:"not null"`
	TotalRentAmount            decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	OutstandingBalance         decimal.Decimal        `gorm:"type:decimal(18,4);not null;index"`
	SecurityDepositAmount      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	SecurityDepositCollected   bool                   `gorm:"not null;default:false"`
	SecurityDepositCollectedAt *time.Time             ``
	Status                     rental.AgreementStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	PaymentRecords             rental.PaymentRecords  `gorm:"type:jsonb;default:'[]'"`
	ScheduleEntries            rental.ScheduleEntries `gorm:"type:jsonb;default:'[]'"`
	ReturnDate                 *time.Time             ``
	ReturnCondition            *string                `gorm:"type:varchar(20)"`
	DamageChargeAmount         *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	DamageDescription          string                 `gorm:"type:text"`
	SecurityDepositRefunded    *decimal.Decimal       `gorm:"type:decimal(18,4)"`
	RefundAccountID            *uuid.UUID             `gorm:"type:uuid"`
	ReturnNotes                string                 `gorm:"type:text"`
	Notes                      string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RentalAgreementModel) TableName() string {
	return "rental_agreements"
}

// ToDomain converts the persistence model to a domain RentalAgreement
func (m *RentalAgreementModel) ToDomain() *rental.RentalAgreement {
	agreement := &rental.RentalAgreement{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		AgreementNumber:            m.AgreementNumber,
		CustomerID:                 m.CustomerID,
		CustomerName:               m.CustomerName,
		RentalItemID:               m.RentalItemID,
		ItemName:                   m.ItemName,
		Quantity:                   m.Quantity,
		PeriodType:                 m.PeriodType,
		StartDate:                  m.StartDate,
		EndDate:                    m.EndDate,
		RentAmount:                 m.RentAmount,
		ExpectedPeriods:            m.ExpectedPeriods,
		TotalRentAmount:            m.TotalRentAmount,
		OutstandingBalance:         m.OutstandingBalance,
		SecurityDepositAmount:      m.SecurityDepositAmount,
		SecurityDepositCollected:   m.SecurityDepositCollected,
		SecurityDepositCollectedAt: m.SecurityDepositCollectedAt,
		Status:                     m.Status,
		PaymentRecords:             m.PaymentRecords,
		ScheduleEntries:            m.ScheduleEntries,
		Notes:                      m.Notes,
	}

	if m.ReturnDate != nil {
		details := rental.ReturnDetails{
			ReturnDate:        *m.ReturnDate,
			DamageDescription: m.DamageDescription,
			Notes:             m.ReturnNotes,
		}
		if m.ReturnCondition != nil {
			details.Condition = rental.ReturnCondition(*m.ReturnCondition)
		}
		if m.DamageChargeAmount != nil {
			details.DamageChargeAmount = *m.DamageChargeAmount
		}
		if m.SecurityDepositRefunded != nil {
			details.SecurityDepositRefunded = *m.SecurityDepositRefunded
		}
		if m.RefundAccountID != nil {
			details.RefundAccountID = *m.RefundAccountID
		}
		agreement.Return = &details
	}

	return agreement
}

// FromDomain populates the persistence model from a domain RentalAgreement
func (m *RentalAgreementModel) FromDomain(a *rental.RentalAgreement) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.AgreementNumber = a.AgreementNumber
	m.CustomerID = a.CustomerID
	m.CustomerName = a.CustomerName
	m.RentalItemID = a.RentalItemID
	m.ItemName = a.ItemName
	m.Quantity = a.Quantity
	m.PeriodType = a.PeriodType
	m.StartDate = a.StartDate
	m.EndDate = a.EndDate
	m.RentAmount = a.RentAmount
	m.ExpectedPeriods = a.ExpectedPeriods
	m.TotalRentAmount = a.TotalRentAmount
	m.OutstandingBalance = a.OutstandingBalance
	m.SecurityDepositAmount = a.SecurityDepositAmount
	m.SecurityDepositCollected = a.SecurityDepositCollected
	m.SecurityDepositCollectedAt = a.SecurityDepositCollectedAt
	m.Status = a.Status
	m.PaymentRecords = a.PaymentRecords
	m.ScheduleEntries = a.ScheduleEntries
	m.Notes = a.Notes

	if a.Return != nil {
		returnDate := a.Return.ReturnDate
		condition := string(a.Return.Condition)
		damage := a.Return.DamageChargeAmount
		refunded := a.Return.SecurityDepositRefunded
		refundAccount := a.Return.RefundAccountID
		m.ReturnDate = &returnDate
		m.ReturnCondition = &condition
		m.DamageChargeAmount = &damage
		m.DamageDescription = a.Return.DamageDescription
		m.SecurityDepositRefunded = &refunded
		m.RefundAccountID = &refundAccount
		m.ReturnNotes = a.Return.Notes
	} else {
		m.ReturnDate = nil
		m.ReturnCondition = nil
		m.DamageChargeAmount = nil
		m.DamageDescription = ""
		m.SecurityDepositRefunded = nil
		m.RefundAccountID = nil
		m.ReturnNotes = ""
	}
}

// RentalAgreementModelFromDomain creates a persistence model from a domain RentalAgreement
func RentalAgreementModelFromDomain(a *rental.RentalAgreement) *RentalAgreementModel {
	m := &RentalAgreementModel{}
	m.FromDomain(a)
	return m
}

// RentalItemModel is the persistence model for the RentalItem aggregate root
type RentalItemModel struct {
	AggregateModel
	Name              string          `gorm:"type:varchar(200);not null"`
	SKU               string          `gorm:"type:varchar(50);index"`
	RentalRate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityTotal     int             `gorm:"not null"`
	QuantityAvailable int             `gorm:"not null"`
	QuantityRented    int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (RentalItemModel) TableName() string {
	return "rental_items"
}

// ToDomain converts the persistence model to a domain RentalItem
func (m *RentalItemModel) ToDomain() *rental.RentalItem {
	item := &rental.RentalItem{
		Name:              m.Name,
		SKU:               m.SKU,
		RentalRate:        m.RentalRate,
		QuantityTotal:     m.QuantityTotal,
		QuantityAvailable: m.QuantityAvailable,
		QuantityRented:    m.QuantityRented,
	}
	m.PopulateAggregateRoot(&item.BaseAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain RentalItem
func (m *RentalItemModel) FromDomain(i *rental.RentalItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.Name = i.Name
	m.SKU = i.SKU
	m.RentalRate = i.RentalRate
	m.QuantityTotal = i.QuantityTotal
	m.QuantityAvailable = i.QuantityAvailable
	m.QuantityRented = i.QuantityRented
}

// RentalItemModelFromDomain creates a persistence model from a domain RentalItem
func RentalItemModelFromDomain(i *rental.RentalItem) *RentalItemModel {
	m := &RentalItemModel{}
	m.FromDomain(i)
	return m
}
