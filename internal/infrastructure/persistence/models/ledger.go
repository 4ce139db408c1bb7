package models

import (
	"github.com/google/uuid"

	"github.com/rentworks/backend/internal/domain/ledger"
)

// AccountModel is the persistence model for one ledger account. The chart of
// accounts is synced in from the accounting backend and read-only here.
type AccountModel struct {
	BaseModel
	Code       string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name       string          `gorm:"type:varchar(200);not null"`
	RootType   ledger.RootType `gorm:"type:varchar(20);not null;index"`
	IsGroup    bool            `gorm:"not null;default:false"`
	IsDisabled bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *ledger.Account {
	return &ledger.Account{
		BaseEntity: m.BaseModel.ToDomain(),
		Code:       m.Code,
		Name:       m.Name,
		RootType:   m.RootType,
		IsGroup:    m.IsGroup,
		IsDisabled: m.IsDisabled,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *ledger.Account) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Code = a.Code
	m.Name = a.Name
	m.RootType = a.RootType
	m.IsGroup = a.IsGroup
	m.IsDisabled = a.IsDisabled
}

// AccountMappingModel is the persistence model for one role-to-account mapping
type AccountMappingModel struct {
	BaseModel
	MappingType ledger.MappingRole `gorm:"type:varchar(50);not null;uniqueIndex"`
	AccountID   uuid.UUID          `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (AccountMappingModel) TableName() string {
	return "account_mappings"
}

// ToDomain converts the persistence model to a domain AccountMapping
func (m *AccountMappingModel) ToDomain() *ledger.AccountMapping {
	return &ledger.AccountMapping{
		BaseEntity:  m.BaseModel.ToDomain(),
		MappingType: m.MappingType,
		AccountID:   m.AccountID,
	}
}

// FromDomain populates the persistence model from a domain AccountMapping
func (m *AccountMappingModel) FromDomain(am *ledger.AccountMapping) {
	m.FromDomainBaseEntity(am.BaseEntity)
	m.MappingType = am.MappingType
	m.AccountID = am.AccountID
}
