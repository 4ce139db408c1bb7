package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentworks/backend/internal/domain/report"
)

// SaleModel is the persistence read model for one sale. Sales are written by
// the sales collaborator; the aggregator only reads them.
type SaleModel struct {
	BaseModel
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleType      report.SaleType `gorm:"type:varchar(20);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalDiscount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InvoiceID     *uuid.UUID      `gorm:"type:uuid;index"`
	SaleDate      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() report.Sale {
	return report.Sale{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		SaleType:      m.SaleType,
		TotalAmount:   m.TotalAmount,
		TotalDiscount: m.TotalDiscount,
		InvoiceID:     m.InvoiceID,
		SaleDate:      m.SaleDate,
	}
}

// InvoiceModel is the persistence read model for one invoice
type InvoiceModel struct {
	BaseModel
	CustomerID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	TotalAmount decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status      report.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	IssueDate   time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() report.Invoice {
	return report.Invoice{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
		IssueDate:   m.IssueDate,
	}
}
