package dto

import (
	"github.com/google/uuid"

	"github.com/rentworks/backend/internal/domain/ledger"
)

// AccountListRequest is the query for listing ledger accounts
type AccountListRequest struct {
	RootType string `form:"root_type" binding:"omitempty,oneof=asset liability income expense equity"`
	IsGroup  *bool  `form:"is_group"`
	Search   string `form:"search"`
}

// ToFilter converts the request to a domain filter
func (r *AccountListRequest) ToFilter() ledger.AccountFilter {
	filter := ledger.AccountFilter{
		IsGroup: r.IsGroup,
		Search:  r.Search,
	}
	if r.RootType != "" {
		rootType := ledger.RootType(r.RootType)
		filter.RootType = &rootType
	}
	return filter
}

// MappedAccountResponse is the wire shape of one resolved role
type MappedAccountResponse struct {
	Role       ledger.MappingRole `json:"role"`
	Configured bool               `json:"configured"`
	Account    *AccountSummary    `json:"account,omitempty"`
}

// AccountSummary is the short wire shape of one ledger account
type AccountSummary struct {
	ID       uuid.UUID       `json:"id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	RootType ledger.RootType `json:"root_type"`
}

// ResolvedMappingsResponse is the wire shape of the resolver output
type ResolvedMappingsResponse struct {
	Roles               []MappedAccountResponse `json:"roles"`
	HasRequiredMappings bool                    `json:"has_required_mappings"`
	MissingRoles        []ledger.MappingRole    `json:"missing_roles"`
	PaymentAccounts     []AccountSummary        `json:"payment_accounts"`
	RefundAccounts      []AccountSummary        `json:"refund_accounts"`
	DefaultAccount      *AccountSummary         `json:"default_payment_account,omitempty"`
}

// NewResolvedMappingsResponse maps resolver output to the wire shape
func NewResolvedMappingsResponse(resolved *ledger.ResolvedMappings) ResolvedMappingsResponse {
	response := ResolvedMappingsResponse{
		Roles:               make([]MappedAccountResponse, 0, len(ledger.AllMappingRoles)),
		HasRequiredMappings: resolved.HasRequiredMappings(),
		MissingRoles:        resolved.MissingRequiredRoles(),
		PaymentAccounts:     accountSummaries(resolved.PaymentAccounts()),
		RefundAccounts:      accountSummaries(resolved.RefundAccounts()),
	}
	for _, role := range ledger.AllMappingRoles {
		entry := MappedAccountResponse{
			Role:       role,
			Configured: resolved.IsConfigured(role),
		}
		if account := resolved.Account(role); account != nil {
			summary := newAccountSummary(account)
			entry.Account = &summary
		}
		response.Roles = append(response.Roles, entry)
	}
	if account := resolved.DefaultPaymentAccount(); account != nil {
		summary := newAccountSummary(account)
		response.DefaultAccount = &summary
	}
	return response
}

func newAccountSummary(account *ledger.Account) AccountSummary {
	return AccountSummary{
		ID:       account.ID,
		Code:     account.Code,
		Name:     account.Name,
		RootType: account.RootType,
	}
}

func accountSummaries(accounts []*ledger.Account) []AccountSummary {
	summaries := make([]AccountSummary, len(accounts))
	for i, account := range accounts {
		summaries[i] = newAccountSummary(account)
	}
	return summaries
}
