package rental

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	ledgerapp "github.com/rentworks/backend/internal/application/ledger"
	"github.com/rentworks/backend/internal/domain/ledger"
	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
)

// SnapshotInvalidator drops cached financial snapshots for a customer after a
// mutation changes the figures they are derived from.
type SnapshotInvalidator interface {
	InvalidateCustomer(ctx context.Context, customerID uuid.UUID) error
}

// AgreementService drives the rental agreement lifecycle: creation, payment
// recording, and return processing. Ledger preconditions are checked here,
// against the resolved account mappings, before any aggregate is touched.
type AgreementService struct {
	agreementRepo rental.AgreementRepository
	itemRepo      rental.ItemRepository
	mappings      *ledgerapp.MappingService
	snapshots     SnapshotInvalidator
	logger        *zap.Logger
}

// NewAgreementService creates a new AgreementService
func NewAgreementService(
	agreementRepo rental.AgreementRepository,
	itemRepo rental.ItemRepository,
	mappings *ledgerapp.MappingService,
	snapshots SnapshotInvalidator,
	logger *zap.Logger,
) *AgreementService {
	return &AgreementService{
		agreementRepo: agreementRepo,
		itemRepo:      itemRepo,
		mappings:      mappings,
		snapshots:     snapshots,
		logger:        logger,
	}
}

// CreateAgreementCommand carries the inputs for creating an agreement
type CreateAgreementCommand struct {
	CustomerID       uuid.UUID
	CustomerName     string
	RentalItemID     uuid.UUID
	Quantity         int
	PeriodType       rental.PeriodType
	StartDate        time.Time
	ExpectedPeriods  int
	RentAmount       decimal.Decimal
	SecurityDeposit  decimal.Decimal
	CollectDeposit   bool
	DepositAccountID *uuid.UUID
	Notes            string
}

// RecordPaymentCommand carries the inputs for recording one payment
type RecordPaymentCommand struct {
	Amount           decimal.Decimal
	PaymentDate      time.Time
	PaymentAccountID uuid.UUID
	PaymentMethod    rental.PaymentMethod
	PeriodIndex      *int
	Notes            string
}

// ProcessReturnCommand carries the inputs for processing a return. A nil
// RefundOverride means the suggested refund is applied.
type ProcessReturnCommand struct {
	ReturnDate         time.Time
	Condition          rental.ReturnCondition
	DamageChargeAmount decimal.Decimal
	DamageDescription  string
	RefundOverride     *decimal.Decimal
	RefundAccountID    uuid.UUID
	Notes              string
}

// AgreementView pairs an agreement with the figures derived for display
type AgreementView struct {
	Agreement       *rental.RentalAgreement `json:"agreement"`
	PaymentStatus   rental.PaymentStatus    `json:"payment_status"`
	PaidAmount      decimal.Decimal         `json:"paid_amount"`
	SuggestedRefund decimal.Decimal         `json:"suggested_refund"`
}

// NewAgreementView derives the display figures for one agreement
func NewAgreementView(agreement *rental.RentalAgreement, now time.Time) AgreementView {
	return AgreementView{
		Agreement:       agreement,
		PaymentStatus:   agreement.PaymentStatus(now),
		PaidAmount:      agreement.PaidAmount(),
		SuggestedRefund: rental.SuggestedRefund(agreement.SecurityDepositAmount, decimal.Zero),
	}
}

// CreateAgreement reserves stock on the item and creates the agreement.
// Refused when the receivable or asset mappings are missing, when a deposit
// is specified without the security-deposits mapping, and, if the deposit is
// collected up front, when no payment account is configured.
func (s *AgreementService) CreateAgreement(ctx context.Context, cmd CreateAgreementCommand) (*rental.RentalAgreement, error) {
	resolved, err := s.mappings.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := resolved.RequireConfigured(ledger.RoleReceivable); err != nil {
		return nil, err
	}
	if err := resolved.RequireConfigured(ledger.RoleAssets); err != nil {
		return nil, err
	}
	if cmd.SecurityDeposit.IsPositive() {
		if err := resolved.RequireConfigured(ledger.RoleSecurityDeposits); err != nil {
			return nil, err
		}
	}
	if cmd.CollectDeposit {
		if !resolved.HasPaymentAccount() {
			return nil, shared.NewMissingMappingError(ledger.RoleCash.String())
		}
		if cmd.DepositAccountID != nil && !resolved.IsPaymentAccount(cmd.DepositAccountID.String()) {
			return nil, shared.NewDomainError("INVALID_ACCOUNT",
				"Deposit account must be one of the configured payment accounts")
		}
	}

	item, err := s.itemRepo.FindByID(ctx, cmd.RentalItemID)
	if err != nil {
		return nil, err
	}
	if err := item.Reserve(cmd.Quantity); err != nil {
		return nil, err
	}

	number, err := s.agreementRepo.GenerateAgreementNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate agreement number: %w", err)
	}

	agreement, err := rental.NewRentalAgreement(rental.NewAgreementParams{
		AgreementNumber: number,
		CustomerID:      cmd.CustomerID,
		CustomerName:    cmd.CustomerName,
		RentalItemID:    cmd.RentalItemID,
		ItemName:        item.Name,
		Quantity:        cmd.Quantity,
		PeriodType:      cmd.PeriodType,
		StartDate:       cmd.StartDate,
		ExpectedPeriods: cmd.ExpectedPeriods,
		RentAmount:      valueobject.NewMoneyFromDecimal(cmd.RentAmount),
		SecurityDeposit: valueobject.NewMoneyFromDecimal(cmd.SecurityDeposit),
		Notes:           cmd.Notes,
	})
	if err != nil {
		return nil, err
	}

	if cmd.CollectDeposit && cmd.SecurityDeposit.IsPositive() {
		if err := agreement.MarkDepositCollected(cmd.StartDate); err != nil {
			return nil, err
		}
	}

	if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.Save(ctx, agreement); err != nil {
		return nil, err
	}

	s.invalidateSnapshots(ctx, agreement.CustomerID)
	s.logger.Info("rental agreement created",
		zap.String("agreement_number", agreement.AgreementNumber),
		zap.String("customer_id", agreement.CustomerID.String()),
		zap.Int("quantity", agreement.Quantity))

	return agreement, nil
}

// RecordPayment records one payment against the agreement. Refused with a
// configuration error when no payment account is mapped at all, and with a
// validation error when the chosen account is not one of them.
func (s *AgreementService) RecordPayment(ctx context.Context, agreementID uuid.UUID, cmd RecordPaymentCommand) (*rental.RentalAgreement, error) {
	resolved, err := s.mappings.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !resolved.HasPaymentAccount() {
		return nil, shared.NewMissingMappingError(ledger.RoleCash.String())
	}
	if !resolved.IsPaymentAccount(cmd.PaymentAccountID.String()) {
		return nil, shared.NewDomainError("INVALID_ACCOUNT",
			"Payment account must be one of the configured payment accounts")
	}

	agreement, err := s.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	record, err := agreement.RecordPayment(
		valueobject.NewMoneyFromDecimal(cmd.Amount),
		cmd.PaymentDate,
		cmd.PaymentAccountID,
		cmd.PaymentMethod,
		cmd.PeriodIndex,
		cmd.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.agreementRepo.SaveWithLock(ctx, agreement); err != nil {
		return nil, err
	}

	s.invalidateSnapshots(ctx, agreement.CustomerID)
	s.logger.Info("payment recorded",
		zap.String("agreement_number", agreement.AgreementNumber),
		zap.String("payment_id", record.ID.String()),
		zap.String("amount", cmd.Amount.StringFixed(2)),
		zap.String("outstanding", agreement.OutstandingBalance.StringFixed(2)))

	return agreement, nil
}

// ProcessReturn closes the agreement out. The refund defaults to the deposit
// minus the damage charge, floored at zero; the override must stay within
// [0, deposit]. Refused when the mappings the refund posting needs are not
// configured, or when the refund account is not a configured payment account.
func (s *AgreementService) ProcessReturn(ctx context.Context, agreementID uuid.UUID, cmd ProcessReturnCommand) (*rental.RentalAgreement, error) {
	resolved, err := s.mappings.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if !resolved.HasPaymentAccount() {
		return nil, shared.NewMissingMappingError(ledger.RoleCash.String())
	}
	if err := resolved.RequireConfigured(ledger.RoleSecurityDeposits); err != nil {
		return nil, err
	}
	if err := resolved.RequireConfigured(ledger.RoleIncome); err != nil {
		return nil, err
	}
	switch cmd.Condition {
	case rental.ReturnedDamaged:
		if cmd.DamageChargeAmount.IsPositive() {
			if err := resolved.RequireConfigured(ledger.RoleDamageIncome); err != nil {
				return nil, err
			}
		}
	case rental.ReturnedLost:
		if err := resolved.RequireConfigured(ledger.RoleAssetLoss); err != nil {
			return nil, err
		}
	}
	if !resolved.IsPaymentAccount(cmd.RefundAccountID.String()) {
		return nil, shared.NewDomainError("INVALID_ACCOUNT",
			"Refund account must be one of the configured payment accounts")
	}

	agreement, err := s.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}

	refund := rental.SuggestedRefund(agreement.SecurityDepositAmount, cmd.DamageChargeAmount)
	if cmd.RefundOverride != nil {
		refund = *cmd.RefundOverride
	}

	if err := agreement.ProcessReturn(rental.ReturnDetails{
		ReturnDate:              cmd.ReturnDate,
		Condition:               cmd.Condition,
		DamageChargeAmount:      cmd.DamageChargeAmount,
		DamageDescription:       cmd.DamageDescription,
		SecurityDepositRefunded: refund,
		RefundAccountID:         cmd.RefundAccountID,
		Notes:                   cmd.Notes,
	}); err != nil {
		return nil, err
	}

	if cmd.Condition != rental.ReturnedLost {
		item, err := s.itemRepo.FindByID(ctx, agreement.RentalItemID)
		if err != nil {
			return nil, err
		}
		if err := item.Restock(agreement.Quantity); err != nil {
			return nil, err
		}
		if err := s.itemRepo.SaveWithLock(ctx, item); err != nil {
			return nil, err
		}
	}

	if err := s.agreementRepo.SaveWithLock(ctx, agreement); err != nil {
		return nil, err
	}

	s.invalidateSnapshots(ctx, agreement.CustomerID)
	s.logger.Info("rental return processed",
		zap.String("agreement_number", agreement.AgreementNumber),
		zap.String("condition", string(cmd.Condition)),
		zap.String("refund", refund.StringFixed(2)))

	return agreement, nil
}

// MarkCompleted closes out the rental term while the item is still out
func (s *AgreementService) MarkCompleted(ctx context.Context, agreementID uuid.UUID, endDate time.Time) (*rental.RentalAgreement, error) {
	agreement, err := s.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if err := agreement.MarkCompleted(endDate); err != nil {
		return nil, err
	}
	if err := s.agreementRepo.SaveWithLock(ctx, agreement); err != nil {
		return nil, err
	}
	return agreement, nil
}

// GetAgreement returns the agreement with its derived payment figures
func (s *AgreementService) GetAgreement(ctx context.Context, agreementID uuid.UUID) (*AgreementView, error) {
	agreement, err := s.agreementRepo.FindByID(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	view := NewAgreementView(agreement, time.Now())
	return &view, nil
}

// ListAgreements returns a page of agreements with derived payment figures
// and the unfiltered total for pagination.
func (s *AgreementService) ListAgreements(ctx context.Context, filter rental.AgreementFilter) ([]AgreementView, int64, error) {
	agreements, err := s.agreementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.agreementRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	views := make([]AgreementView, 0, len(agreements))
	for i := range agreements {
		views = append(views, NewAgreementView(&agreements[i], now))
	}
	return views, total, nil
}

// RefreshOverdueStatuses sweeps active agreements and marks the ones with a
// slipped schedule overdue. Returns how many were transitioned.
func (s *AgreementService) RefreshOverdueStatuses(ctx context.Context, now time.Time) (int, error) {
	status := rental.AgreementActive
	agreements, err := s.agreementRepo.FindAll(ctx, rental.AgreementFilter{Status: &status})
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range agreements {
		agreement := &agreements[i]
		if agreement.PaymentStatus(now) != rental.PaymentStatusLate {
			continue
		}
		if err := agreement.MarkOverdue(); err != nil {
			continue
		}
		if err := s.agreementRepo.SaveWithLock(ctx, agreement); err != nil {
			s.logger.Warn("failed to mark agreement overdue",
				zap.String("agreement_number", agreement.AgreementNumber),
				zap.Error(err))
			continue
		}
		marked++
	}
	return marked, nil
}

func (s *AgreementService) invalidateSnapshots(ctx context.Context, customerID uuid.UUID) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.InvalidateCustomer(ctx, customerID); err != nil {
		s.logger.Warn("failed to invalidate financial snapshots",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
	}
}
