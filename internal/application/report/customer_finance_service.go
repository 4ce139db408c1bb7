package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/report"
)

// StatsProvider is the preferred source of customer statistics: the backend
// aggregate endpoint. A nil result with a nil error means the provider had
// nothing usable and the caller should fall through to local recomputation.
type StatsProvider interface {
	FetchCustomerStats(ctx context.Context, customerID uuid.UUID, period report.Period) (*report.BackendStats, error)
}

// SnapshotCache caches computed snapshots per customer and period
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*report.CustomerFinancialSnapshot, bool)
	Set(ctx context.Context, key string, snapshot *report.CustomerFinancialSnapshot)
	InvalidateCustomer(ctx context.Context, customerID uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

// CustomerFinanceService derives per-customer financial snapshots. It prefers
// the backend aggregate figures and recomputes locally from raw records when
// they are absent or incomplete; both paths yield the same canonical shape.
type CustomerFinanceService struct {
	stats         StatsProvider
	salesRepo     report.SalesRepository
	agreementRepo rental.AgreementRepository
	cache         SnapshotCache
	logger        *zap.Logger
}

// NewCustomerFinanceService creates a new CustomerFinanceService. The stats
// provider and cache may be nil; the service then always recomputes locally.
func NewCustomerFinanceService(
	stats StatsProvider,
	salesRepo report.SalesRepository,
	agreementRepo rental.AgreementRepository,
	cache SnapshotCache,
	logger *zap.Logger,
) *CustomerFinanceService {
	return &CustomerFinanceService{
		stats:         stats,
		salesRepo:     salesRepo,
		agreementRepo: agreementRepo,
		cache:         cache,
		logger:        logger,
	}
}

// GetSnapshot returns the financial snapshot for one customer over the given
// period, cached per customer and period.
func (s *CustomerFinanceService) GetSnapshot(ctx context.Context, customerID uuid.UUID, period report.Period) (*report.CustomerFinancialSnapshot, error) {
	key := SnapshotCacheKey(customerID, period)
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(ctx, key); ok {
			return snapshot, nil
		}
	}

	snapshot, err := s.computeSnapshot(ctx, customerID, period)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, snapshot)
	}
	return snapshot, nil
}

func (s *CustomerFinanceService) computeSnapshot(ctx context.Context, customerID uuid.UUID, period report.Period) (*report.CustomerFinancialSnapshot, error) {
	if s.stats != nil {
		stats, err := s.stats.FetchCustomerStats(ctx, customerID, period)
		if err != nil {
			s.logger.Warn("backend stats unavailable, falling back to local recomputation",
				zap.String("customer_id", customerID.String()),
				zap.Error(err))
		} else if snapshot, ok := report.NormalizeBackendStats(customerID, period, stats); ok {
			return snapshot, nil
		}
	}

	sales, err := s.salesRepo.FindSalesByCustomer(ctx, customerID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	invoices, err := s.salesRepo.FindInvoicesByCustomer(ctx, customerID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	agreements, err := s.agreementRepo.FindByCustomer(ctx, customerID, rental.AgreementFilter{
		FromDate: period.Start,
		ToDate:   period.End,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load rental agreements: %w", err)
	}

	return report.ComputeFallbackSnapshot(customerID, period, sales, invoices, agreements), nil
}

// SnapshotCacheKey builds the cache key for one customer and period. The
// customer id prefixes the key so per-customer invalidation can match on it.
func SnapshotCacheKey(customerID uuid.UUID, period report.Period) string {
	start, end := "", ""
	if period.Start != nil {
		start = period.Start.Format(time.RFC3339)
	}
	if period.End != nil {
		end = period.End.Format(time.RFC3339)
	}
	return fmt.Sprintf("snapshot:%s:%s:%s", customerID, start, end)
}
