package ledger

import (
	"github.com/google/uuid"
	"github.com/rentworks/backend/internal/domain/shared"
)

// MappingRole names the ledger role an account is mapped to for rental
// transactions. Roles are global configuration, persisted externally and
// read-only from this core's perspective.
type MappingRole string

const (
	RoleCash             MappingRole = "rental_cash"
	RoleBank             MappingRole = "rental_bank"
	RoleReceivable       MappingRole = "rental_ar"
	RoleAssets           MappingRole = "rental_assets"
	RoleSecurityDeposits MappingRole = "rental_security_deposits"
	RoleIncome           MappingRole = "rental_income"
	RoleDamageIncome     MappingRole = "rental_damage_income"
	RoleAssetLoss        MappingRole = "rental_asset_loss"
)

// AllMappingRoles lists every known role in display order
var AllMappingRoles = []MappingRole{
	RoleCash,
	RoleBank,
	RoleReceivable,
	RoleAssets,
	RoleSecurityDeposits,
	RoleIncome,
	RoleDamageIncome,
	RoleAssetLoss,
}

// IsValid checks if the role is a known MappingRole
func (r MappingRole) IsValid() bool {
	for _, known := range AllMappingRoles {
		if r == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the role
func (r MappingRole) String() string {
	return string(r)
}

// AccountMapping points a mapping role at one ledger account
type AccountMapping struct {
	shared.BaseEntity
	MappingType MappingRole `json:"mapping_type"`
	AccountID   uuid.UUID   `json:"account_id"`
}
