package rental

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	ledgerapp "github.com/rentworks/backend/internal/application/ledger"
	"github.com/rentworks/backend/internal/domain/ledger"
	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockAgreementRepository is a mock implementation of rental.AgreementRepository
type MockAgreementRepository struct {
	mock.Mock
}

func (m *MockAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalAgreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.RentalAgreement), args.Error(1)
}

func (m *MockAgreementRepository) FindByNumber(ctx context.Context, agreementNumber string) (*rental.RentalAgreement, error) {
	args := m.Called(ctx, agreementNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.RentalAgreement), args.Error(1)
}

func (m *MockAgreementRepository) FindAll(ctx context.Context, filter rental.AgreementFilter) ([]rental.RentalAgreement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.RentalAgreement), args.Error(1)
}

func (m *MockAgreementRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter rental.AgreementFilter) ([]rental.RentalAgreement, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.RentalAgreement), args.Error(1)
}

func (m *MockAgreementRepository) Count(ctx context.Context, filter rental.AgreementFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgreementRepository) Save(ctx context.Context, agreement *rental.RentalAgreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

func (m *MockAgreementRepository) SaveWithLock(ctx context.Context, agreement *rental.RentalAgreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

func (m *MockAgreementRepository) GenerateAgreementNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockItemRepository is a mock implementation of rental.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.RentalItem), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context) ([]rental.RentalItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.RentalItem), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *rental.RentalItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *rental.RentalItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

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

// MockSnapshotInvalidator is a mock implementation of SnapshotInvalidator
type MockSnapshotInvalidator struct {
	mock.Mock
}

func (m *MockSnapshotInvalidator) InvalidateCustomer(ctx context.Context, customerID uuid.UUID) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// =============================================================================
// Test fixtures
// =============================================================================

type serviceFixture struct {
	service       *AgreementService
	agreementRepo *MockAgreementRepository
	itemRepo      *MockItemRepository
	snapshots     *MockSnapshotInvalidator
	cashAccountID uuid.UUID
}

// newServiceFixture builds an AgreementService backed by mocks, with the
// given ledger roles mapped to selectable accounts.
func newServiceFixture(t *testing.T, roles ...ledger.MappingRole) *serviceFixture {
	t.Helper()

	var accounts []ledger.Account
	var mappings []ledger.AccountMapping
	var cashID uuid.UUID
	for _, role := range roles {
		account := ledger.Account{
			BaseEntity: shared.NewBaseEntity(),
			Code:       string(role),
			Name:       string(role),
			RootType:   ledger.RootTypeAsset,
		}
		accounts = append(accounts, account)
		mappings = append(mappings, ledger.AccountMapping{
			BaseEntity:  shared.NewBaseEntity(),
			MappingType: role,
			AccountID:   account.ID,
		})
		if role == ledger.RoleCash {
			cashID = account.ID
		}
	}

	accountRepo := new(MockAccountRepository)
	mappingRepo := new(MockAccountMappingRepository)
	mappingRepo.On("FindAll", mock.Anything).Return(mappings, nil)
	accountRepo.On("FindAll", mock.Anything, ledger.AccountFilter{}).Return(accounts, nil)

	agreementRepo := new(MockAgreementRepository)
	itemRepo := new(MockItemRepository)
	snapshots := new(MockSnapshotInvalidator)
	snapshots.On("InvalidateCustomer", mock.Anything, mock.Anything).Return(nil).Maybe()

	service := NewAgreementService(
		agreementRepo,
		itemRepo,
		ledgerapp.NewMappingService(accountRepo, mappingRepo),
		snapshots,
		zap.NewNop(),
	)
	return &serviceFixture{
		service:       service,
		agreementRepo: agreementRepo,
		itemRepo:      itemRepo,
		snapshots:     snapshots,
		cashAccountID: cashID,
	}
}

var allLifecycleRoles = []ledger.MappingRole{
	ledger.RoleCash,
	ledger.RoleReceivable,
	ledger.RoleAssets,
	ledger.RoleSecurityDeposits,
	ledger.RoleIncome,
	ledger.RoleDamageIncome,
	ledger.RoleAssetLoss,
}

func newStoredItem(t *testing.T, quantity int) *rental.RentalItem {
	t.Helper()
	item, err := rental.NewRentalItem("Excavator", "EXC-01", valueobject.NewMoneyFromFloat(2500), quantity)
	require.NoError(t, err)
	return item
}

func newStoredAgreement(t *testing.T) *rental.RentalAgreement {
	t.Helper()
	agreement, err := rental.NewRentalAgreement(rental.NewAgreementParams{
		AgreementNumber: "RA-20260301-00001",
		CustomerID:      uuid.New(),
		CustomerName:    "Aye Aye Trading",
		RentalItemID:    uuid.New(),
		ItemName:        "Excavator",
		Quantity:        2,
		PeriodType:      rental.PeriodMonthly,
		StartDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedPeriods: 6,
		RentAmount:      valueobject.NewMoneyFromFloat(2500),
		SecurityDeposit: valueobject.NewMoneyFromFloat(5000),
	})
	require.NoError(t, err)
	agreement.ClearDomainEvents()
	return agreement
}

func baseCreateCommand() CreateAgreementCommand {
	return CreateAgreementCommand{
		CustomerID:      uuid.New(),
		CustomerName:    "Aye Aye Trading",
		RentalItemID:    uuid.New(),
		Quantity:        2,
		PeriodType:      rental.PeriodMonthly,
		StartDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedPeriods: 6,
		RentAmount:      decimal.NewFromInt(2500),
		SecurityDeposit: decimal.NewFromInt(5000),
	}
}

// =============================================================================
// CreateAgreement
// =============================================================================

func TestAgreementService_CreateAgreement(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves stock and saves the agreement", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		item := newStoredItem(t, 5)
		cmd := baseCreateCommand()
		cmd.RentalItemID = item.ID

		fx.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
		fx.agreementRepo.On("GenerateAgreementNumber", ctx).Return("RA-20260301-00007", nil)
		fx.agreementRepo.On("Save", ctx, mock.Anything).Return(nil)

		agreement, err := fx.service.CreateAgreement(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, "RA-20260301-00007", agreement.AgreementNumber)
		assert.Equal(t, rental.AgreementActive, agreement.Status)
		assert.True(t, agreement.OutstandingBalance.Equal(decimal.NewFromInt(15000)))
		assert.Equal(t, 3, item.QuantityAvailable)
		assert.Equal(t, 2, item.QuantityRented)
		fx.snapshots.AssertCalled(t, "InvalidateCustomer", ctx, cmd.CustomerID)
	})

	t.Run("refused when receivable mapping is missing", func(t *testing.T) {
		fx := newServiceFixture(t, ledger.RoleCash, ledger.RoleAssets)

		_, err := fx.service.CreateAgreement(ctx, baseCreateCommand())
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "rental_ar")
		fx.itemRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("specifying a deposit requires the security-deposits mapping", func(t *testing.T) {
		fx := newServiceFixture(t, ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets)
		cmd := baseCreateCommand() // deposit 5000, not collected up front

		_, err := fx.service.CreateAgreement(ctx, cmd)
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "rental_security_deposits")
		fx.itemRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		fx.agreementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("zero deposit does not require the security-deposits mapping", func(t *testing.T) {
		fx := newServiceFixture(t, ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets)
		item := newStoredItem(t, 5)
		cmd := baseCreateCommand()
		cmd.RentalItemID = item.ID
		cmd.SecurityDeposit = decimal.Zero

		fx.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
		fx.agreementRepo.On("GenerateAgreementNumber", ctx).Return("RA-20260301-00009", nil)
		fx.agreementRepo.On("Save", ctx, mock.Anything).Return(nil)

		agreement, err := fx.service.CreateAgreement(ctx, cmd)
		require.NoError(t, err)
		assert.True(t, agreement.SecurityDepositAmount.IsZero())
	})

	t.Run("collecting the deposit requires a payment account", func(t *testing.T) {
		fx := newServiceFixture(t,
			ledger.RoleReceivable, ledger.RoleAssets, ledger.RoleSecurityDeposits)
		cmd := baseCreateCommand()
		cmd.CollectDeposit = true

		_, err := fx.service.CreateAgreement(ctx, cmd)
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
	})

	t.Run("deposit account must be a configured payment account", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		cmd := baseCreateCommand()
		cmd.CollectDeposit = true
		unknown := uuid.New()
		cmd.DepositAccountID = &unknown

		_, err := fx.service.CreateAgreement(ctx, cmd)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT", domainErr.Code)
	})

	t.Run("collecting the deposit marks it collected", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		item := newStoredItem(t, 5)
		cmd := baseCreateCommand()
		cmd.RentalItemID = item.ID
		cmd.CollectDeposit = true
		cmd.DepositAccountID = &fx.cashAccountID

		fx.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)
		fx.agreementRepo.On("GenerateAgreementNumber", ctx).Return("RA-20260301-00008", nil)
		fx.agreementRepo.On("Save", ctx, mock.Anything).Return(nil)

		agreement, err := fx.service.CreateAgreement(ctx, cmd)
		require.NoError(t, err)
		assert.True(t, agreement.SecurityDepositCollected)
	})

	t.Run("insufficient stock refuses the agreement", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		item := newStoredItem(t, 1)
		cmd := baseCreateCommand()
		cmd.RentalItemID = item.ID

		fx.itemRepo.On("FindByID", ctx, item.ID).Return(item, nil)

		_, err := fx.service.CreateAgreement(ctx, cmd)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		fx.agreementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// RecordPayment
// =============================================================================

func TestAgreementService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	basePayment := func(accountID uuid.UUID) RecordPaymentCommand {
		return RecordPaymentCommand{
			Amount:           decimal.NewFromInt(2500),
			PaymentDate:      time.Now(),
			PaymentAccountID: accountID,
			PaymentMethod:    rental.MethodCash,
		}
	}

	t.Run("records the payment and persists with lock", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)

		updated, err := fx.service.RecordPayment(ctx, agreement.ID, basePayment(fx.cashAccountID))
		require.NoError(t, err)
		assert.True(t, updated.OutstandingBalance.Equal(decimal.NewFromInt(12500)))
		assert.Len(t, updated.PaymentRecords, 1)
		fx.snapshots.AssertCalled(t, "InvalidateCustomer", ctx, agreement.CustomerID)
	})

	t.Run("refused as configuration error when no payment account is mapped", func(t *testing.T) {
		fx := newServiceFixture(t,
			ledger.RoleReceivable, ledger.RoleAssets, ledger.RoleSecurityDeposits, ledger.RoleIncome)

		_, err := fx.service.RecordPayment(ctx, uuid.New(), basePayment(uuid.New()))
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
	})

	t.Run("refused as validation error for an unknown account", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)

		_, err := fx.service.RecordPayment(ctx, uuid.New(), basePayment(uuid.New()))
		require.Error(t, err)
		assert.False(t, shared.IsConfigurationError(err))
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ACCOUNT", domainErr.Code)
	})

	t.Run("propagates optimistic lock conflicts", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).
			Return(shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "Agreement was modified by another process"))

		_, err := fx.service.RecordPayment(ctx, agreement.ID, basePayment(fx.cashAccountID))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}

// =============================================================================
// ProcessReturn
// =============================================================================

func TestAgreementService_ProcessReturn(t *testing.T) {
	ctx := context.Background()

	baseReturn := func(accountID uuid.UUID) ProcessReturnCommand {
		return ProcessReturnCommand{
			ReturnDate:         time.Now(),
			Condition:          rental.ReturnedSafely,
			DamageChargeAmount: decimal.Zero,
			RefundAccountID:    accountID,
		}
	}

	t.Run("safe return refunds the full deposit and restocks", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)
		item := newStoredItem(t, 5)
		require.NoError(t, item.Reserve(agreement.Quantity))

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)
		fx.itemRepo.On("FindByID", ctx, agreement.RentalItemID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)

		updated, err := fx.service.ProcessReturn(ctx, agreement.ID, baseReturn(fx.cashAccountID))
		require.NoError(t, err)

		assert.Equal(t, rental.AgreementReturned, updated.Status)
		require.NotNil(t, updated.Return)
		assert.True(t, updated.Return.SecurityDepositRefunded.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, 5, item.QuantityAvailable)
	})

	t.Run("damage charge reduces the default refund", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)
		item := newStoredItem(t, 5)
		require.NoError(t, item.Reserve(agreement.Quantity))

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)
		fx.itemRepo.On("FindByID", ctx, agreement.RentalItemID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)

		cmd := baseReturn(fx.cashAccountID)
		cmd.Condition = rental.ReturnedDamaged
		cmd.DamageChargeAmount = decimal.NewFromInt(1500)
		cmd.DamageDescription = "scratched boom arm"

		updated, err := fx.service.ProcessReturn(ctx, agreement.ID, cmd)
		require.NoError(t, err)
		assert.True(t, updated.Return.SecurityDepositRefunded.Equal(decimal.NewFromInt(3500)))
	})

	t.Run("damage above the deposit refunds nothing", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)
		item := newStoredItem(t, 5)
		require.NoError(t, item.Reserve(agreement.Quantity))

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)
		fx.itemRepo.On("FindByID", ctx, agreement.RentalItemID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)

		cmd := baseReturn(fx.cashAccountID)
		cmd.Condition = rental.ReturnedDamaged
		cmd.DamageChargeAmount = decimal.NewFromInt(6000)

		updated, err := fx.service.ProcessReturn(ctx, agreement.ID, cmd)
		require.NoError(t, err)
		assert.True(t, updated.Return.SecurityDepositRefunded.IsZero())
	})

	t.Run("refund override replaces the suggestion", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)
		item := newStoredItem(t, 5)
		require.NoError(t, item.Reserve(agreement.Quantity))

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)
		fx.itemRepo.On("FindByID", ctx, agreement.RentalItemID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)

		override := decimal.NewFromInt(1000)
		cmd := baseReturn(fx.cashAccountID)
		cmd.RefundOverride = &override

		updated, err := fx.service.ProcessReturn(ctx, agreement.ID, cmd)
		require.NoError(t, err)
		assert.True(t, updated.Return.SecurityDepositRefunded.Equal(override))
	})

	t.Run("override outside bounds is refused", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)

		override := decimal.NewFromInt(9000)
		cmd := baseReturn(fx.cashAccountID)
		cmd.RefundOverride = &override

		_, err := fx.service.ProcessReturn(ctx, agreement.ID, cmd)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_REFUND", domainErr.Code)
	})

	t.Run("lost items are not restocked", func(t *testing.T) {
		fx := newServiceFixture(t, allLifecycleRoles...)
		agreement := newStoredAgreement(t)

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)

		cmd := baseReturn(fx.cashAccountID)
		cmd.Condition = rental.ReturnedLost
		cmd.DamageChargeAmount = decimal.NewFromInt(5000)

		_, err := fx.service.ProcessReturn(ctx, agreement.ID, cmd)
		require.NoError(t, err)
		fx.itemRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("refused without the security deposit mapping", func(t *testing.T) {
		fx := newServiceFixture(t, ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets, ledger.RoleIncome)

		_, err := fx.service.ProcessReturn(ctx, uuid.New(), baseReturn(fx.cashAccountID))
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "rental_security_deposits")
	})

	t.Run("refused without the income mapping even with a refund account", func(t *testing.T) {
		fx := newServiceFixture(t,
			ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets, ledger.RoleSecurityDeposits)

		_, err := fx.service.ProcessReturn(ctx, uuid.New(), baseReturn(fx.cashAccountID))
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "rental_income")
		fx.agreementRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("positive damage charge requires the damage income mapping", func(t *testing.T) {
		fx := newServiceFixture(t,
			ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets,
			ledger.RoleSecurityDeposits, ledger.RoleIncome)

		cmd := baseReturn(fx.cashAccountID)
		cmd.Condition = rental.ReturnedDamaged
		cmd.DamageChargeAmount = decimal.NewFromInt(100)

		_, err := fx.service.ProcessReturn(ctx, uuid.New(), cmd)
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "rental_damage_income")
	})

	t.Run("zero damage charge does not require the damage income mapping", func(t *testing.T) {
		fx := newServiceFixture(t,
			ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets,
			ledger.RoleSecurityDeposits, ledger.RoleIncome)
		agreement := newStoredAgreement(t)
		item := newStoredItem(t, 5)
		require.NoError(t, item.Reserve(agreement.Quantity))

		fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)
		fx.agreementRepo.On("SaveWithLock", ctx, agreement).Return(nil)
		fx.itemRepo.On("FindByID", ctx, agreement.RentalItemID).Return(item, nil)
		fx.itemRepo.On("SaveWithLock", ctx, item).Return(nil)

		cmd := baseReturn(fx.cashAccountID)
		cmd.Condition = rental.ReturnedDamaged

		_, err := fx.service.ProcessReturn(ctx, agreement.ID, cmd)
		assert.NoError(t, err)
	})

	t.Run("lost condition requires the asset loss mapping", func(t *testing.T) {
		fx := newServiceFixture(t,
			ledger.RoleCash, ledger.RoleReceivable, ledger.RoleAssets,
			ledger.RoleSecurityDeposits, ledger.RoleIncome)

		cmd := baseReturn(fx.cashAccountID)
		cmd.Condition = rental.ReturnedLost

		_, err := fx.service.ProcessReturn(ctx, uuid.New(), cmd)
		require.Error(t, err)
		assert.True(t, shared.IsConfigurationError(err))
		assert.Contains(t, err.Error(), "rental_asset_loss")
	})
}

// =============================================================================
// Queries and sweeps
// =============================================================================

func TestAgreementService_GetAgreement(t *testing.T) {
	ctx := context.Background()
	fx := newServiceFixture(t, allLifecycleRoles...)
	agreement := newStoredAgreement(t)

	fx.agreementRepo.On("FindByID", ctx, agreement.ID).Return(agreement, nil)

	view, err := fx.service.GetAgreement(ctx, agreement.ID)
	require.NoError(t, err)
	assert.Equal(t, rental.PaymentStatusUnpaid, view.PaymentStatus)
	assert.True(t, view.PaidAmount.IsZero())
	assert.True(t, view.SuggestedRefund.Equal(decimal.NewFromInt(5000)))
}

func TestAgreementService_RefreshOverdueStatuses(t *testing.T) {
	ctx := context.Background()
	fx := newServiceFixture(t, allLifecycleRoles...)

	overdue := newStoredAgreement(t)
	overdue.ScheduleEntries[0].DueDate = time.Now().AddDate(0, 0, -5)

	current := newStoredAgreement(t)
	for i := range current.ScheduleEntries {
		current.ScheduleEntries[i].DueDate = time.Now().AddDate(0, 1, 0)
	}

	fx.agreementRepo.On("FindAll", ctx, mock.Anything).
		Return([]rental.RentalAgreement{*overdue, *current}, nil)
	fx.agreementRepo.On("SaveWithLock", ctx, mock.Anything).Return(nil)

	marked, err := fx.service.RefreshOverdueStatuses(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, marked)
}
