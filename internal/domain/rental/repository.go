package rental

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AgreementFilter narrows agreement list queries
type AgreementFilter struct {
	CustomerID *uuid.UUID
	ItemID     *uuid.UUID
	Status     *AgreementStatus
	FromDate   *time.Time
	ToDate     *time.Time
	Search     string
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// AgreementRepository persists rental agreements
type AgreementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RentalAgreement, error)
	FindByNumber(ctx context.Context, agreementNumber string) (*RentalAgreement, error)
	FindAll(ctx context.Context, filter AgreementFilter) ([]RentalAgreement, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter AgreementFilter) ([]RentalAgreement, error)
	Count(ctx context.Context, filter AgreementFilter) (int64, error)
	Save(ctx context.Context, agreement *RentalAgreement) error
	SaveWithLock(ctx context.Context, agreement *RentalAgreement) error
	GenerateAgreementNumber(ctx context.Context) (string, error)
}

// ItemRepository persists rental items
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RentalItem, error)
	FindAll(ctx context.Context) ([]RentalItem, error)
	Save(ctx context.Context, item *RentalItem) error
	SaveWithLock(ctx context.Context, item *RentalItem) error
}
