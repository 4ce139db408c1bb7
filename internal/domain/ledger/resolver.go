package ledger

import (
	"github.com/rentworks/backend/internal/domain/shared"
)

// ResolvedMappings is the structured lookup of role -> resolved account built
// from the persisted mapping rows and the account catalogue. Resolution never
// fails: an unmapped or dangling role simply resolves to nil, and callers
// decide whether that blocks their operation.
type ResolvedMappings struct {
	accounts map[MappingRole]*Account
}

// ResolveAccountMappings builds the lookup. Mappings that point at a missing,
// group, or disabled account resolve to nil, same as absent mappings.
func ResolveAccountMappings(mappings []AccountMapping, accounts []Account) *ResolvedMappings {
	byID := make(map[string]*Account, len(accounts))
	for i := range accounts {
		byID[accounts[i].ID.String()] = &accounts[i]
	}

	resolved := make(map[MappingRole]*Account, len(AllMappingRoles))
	for _, m := range mappings {
		if !m.MappingType.IsValid() {
			continue
		}
		account, ok := byID[m.AccountID.String()]
		if !ok || !account.IsSelectable() {
			continue
		}
		resolved[m.MappingType] = account
	}

	return &ResolvedMappings{accounts: resolved}
}

// Account returns the resolved account for a role, or nil if unmapped
func (r *ResolvedMappings) Account(role MappingRole) *Account {
	return r.accounts[role]
}

// IsConfigured reports whether the role resolves to an existing,
// non-disabled account
func (r *ResolvedMappings) IsConfigured(role MappingRole) bool {
	return r.accounts[role] != nil
}

// HasPaymentAccount reports whether at least one of cash/bank is configured
func (r *ResolvedMappings) HasPaymentAccount() bool {
	return r.IsConfigured(RoleCash) || r.IsConfigured(RoleBank)
}

// HasRequiredMappings reports whether the minimum set needed to run the
// rental lifecycle end-to-end is configured: cash-or-bank, receivable,
// assets, security deposits, and income.
func (r *ResolvedMappings) HasRequiredMappings() bool {
	return r.HasPaymentAccount() &&
		r.IsConfigured(RoleReceivable) &&
		r.IsConfigured(RoleAssets) &&
		r.IsConfigured(RoleSecurityDeposits) &&
		r.IsConfigured(RoleIncome)
}

// MissingRequiredRoles returns the required roles that are not configured,
// in display order, for configuration-error messages.
func (r *ResolvedMappings) MissingRequiredRoles() []MappingRole {
	var missing []MappingRole
	if !r.HasPaymentAccount() {
		missing = append(missing, RoleCash)
	}
	for _, role := range []MappingRole{RoleReceivable, RoleAssets, RoleSecurityDeposits, RoleIncome} {
		if !r.IsConfigured(role) {
			missing = append(missing, role)
		}
	}
	return missing
}

// PaymentAccounts returns the configured payment accounts in selection
// order: cash first, then bank. Used to populate account selectors.
func (r *ResolvedMappings) PaymentAccounts() []*Account {
	var accounts []*Account
	if cash := r.Account(RoleCash); cash != nil {
		accounts = append(accounts, cash)
	}
	if bank := r.Account(RoleBank); bank != nil {
		accounts = append(accounts, bank)
	}
	return accounts
}

// RefundAccounts returns the configured refund accounts, cash first
func (r *ResolvedMappings) RefundAccounts() []*Account {
	return r.PaymentAccounts()
}

// DefaultPaymentAccount returns the preferred default for account selection
// inputs: cash when configured, otherwise bank, otherwise nil.
func (r *ResolvedMappings) DefaultPaymentAccount() *Account {
	if cash := r.Account(RoleCash); cash != nil {
		return cash
	}
	return r.Account(RoleBank)
}

// IsPaymentAccount reports whether the given account id is one of the
// configured payment accounts.
func (r *ResolvedMappings) IsPaymentAccount(accountID string) bool {
	for _, account := range r.PaymentAccounts() {
		if account.ID.String() == accountID {
			return true
		}
	}
	return false
}

// RequireConfigured returns a missing-mapping configuration error when the
// role is not configured, nil otherwise.
func (r *ResolvedMappings) RequireConfigured(role MappingRole) error {
	if !r.IsConfigured(role) {
		return shared.NewMissingMappingError(role.String())
	}
	return nil
}
