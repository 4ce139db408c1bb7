package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rentworks/backend/internal/domain/ledger"
	"github.com/rentworks/backend/internal/domain/shared"
)

// MockAccountRepository is a mock implementation of ledger.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]ledger.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.Account), args.Error(1)
}

// MockAccountMappingRepository is a mock implementation of ledger.AccountMappingRepository
type MockAccountMappingRepository struct {
	mock.Mock
}

func (m *MockAccountMappingRepository) FindAll(ctx context.Context) ([]ledger.AccountMapping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.AccountMapping), args.Error(1)
}

func TestMappingService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the role lookup from repository rows", func(t *testing.T) {
		cash := ledger.Account{BaseEntity: shared.NewBaseEntity(), Code: "1001", Name: "Cash", RootType: ledger.RootTypeAsset}
		mapping := ledger.AccountMapping{BaseEntity: shared.NewBaseEntity(), MappingType: ledger.RoleCash, AccountID: cash.ID}

		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockAccountMappingRepository)
		mappingRepo.On("FindAll", ctx).Return([]ledger.AccountMapping{mapping}, nil)
		accountRepo.On("FindAll", ctx, ledger.AccountFilter{}).Return([]ledger.Account{cash}, nil)

		service := NewMappingService(accountRepo, mappingRepo)
		resolved, err := service.Resolve(ctx)
		require.NoError(t, err)
		require.NotNil(t, resolved.Account(ledger.RoleCash))
		assert.Equal(t, "1001", resolved.Account(ledger.RoleCash).Code)
	})

	t.Run("missing mappings are not an error", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockAccountMappingRepository)
		mappingRepo.On("FindAll", ctx).Return([]ledger.AccountMapping{}, nil)
		accountRepo.On("FindAll", ctx, ledger.AccountFilter{}).Return([]ledger.Account{}, nil)

		service := NewMappingService(accountRepo, mappingRepo)
		resolved, err := service.Resolve(ctx)
		require.NoError(t, err)
		assert.False(t, resolved.HasRequiredMappings())
	})

	t.Run("repository failures are errors", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		mappingRepo := new(MockAccountMappingRepository)
		mappingRepo.On("FindAll", ctx).Return(nil, errors.New("connection refused"))

		service := NewMappingService(accountRepo, mappingRepo)
		_, err := service.Resolve(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "account mappings")
	})
}
