package ledger

import (
	"github.com/rentworks/backend/internal/domain/shared"
)

// RootType classifies a ledger account in the chart of accounts
type RootType string

const (
	RootTypeAsset     RootType = "asset"
	RootTypeLiability RootType = "liability"
	RootTypeIncome    RootType = "income"
	RootTypeExpense   RootType = "expense"
	RootTypeEquity    RootType = "equity"
)

// IsValid checks if the root type is a valid RootType
func (t RootType) IsValid() bool {
	switch t {
	case RootTypeAsset, RootTypeLiability, RootTypeIncome, RootTypeExpense, RootTypeEquity:
		return true
	}
	return false
}

// Account is a ledger account. The chart of accounts is owned by the external
// accounting backend; this core only reads accounts to resolve mappings and
// to populate payment/refund account selectors.
type Account struct {
	shared.BaseEntity
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	RootType   RootType `json:"root_type"`
	IsGroup    bool     `json:"is_group"`
	IsDisabled bool     `json:"is_disabled"`
}

// IsSelectable reports whether the account can back a money-moving operation.
// Group and disabled accounts never can.
func (a *Account) IsSelectable() bool {
	return !a.IsGroup && !a.IsDisabled
}
