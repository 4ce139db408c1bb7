package ledger

import (
	"context"
	"fmt"

	"github.com/rentworks/backend/internal/domain/ledger"
)

// MappingService resolves the current account-mapping configuration.
// Both the agreement lifecycle and the return calculator consult it before
// moving money.
type MappingService struct {
	accountRepo ledger.AccountRepository
	mappingRepo ledger.AccountMappingRepository
}

// NewMappingService creates a new MappingService
func NewMappingService(accountRepo ledger.AccountRepository, mappingRepo ledger.AccountMappingRepository) *MappingService {
	return &MappingService{
		accountRepo: accountRepo,
		mappingRepo: mappingRepo,
	}
}

// Resolve loads the persisted mapping rows and the account catalogue and
// builds the role lookup. Only repository failures are errors; missing
// mappings are a configuration state, not a fault.
func (s *MappingService) Resolve(ctx context.Context) (*ledger.ResolvedMappings, error) {
	mappings, err := s.mappingRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account mappings: %w", err)
	}
	accounts, err := s.accountRepo.FindAll(ctx, ledger.AccountFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	return ledger.ResolveAccountMappings(mappings, accounts), nil
}

// ListAccounts returns the account catalogue with the given filter applied
func (s *MappingService) ListAccounts(ctx context.Context, filter ledger.AccountFilter) ([]ledger.Account, error) {
	return s.accountRepo.FindAll(ctx, filter)
}

// ListMappings returns the raw persisted mapping rows
func (s *MappingService) ListMappings(ctx context.Context) ([]ledger.AccountMapping, error) {
	return s.mappingRepo.FindAll(ctx)
}
