package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/infrastructure/persistence/models"
)

// GormAgreementRepository implements rental.AgreementRepository using GORM
type GormAgreementRepository struct {
	db *gorm.DB
}

// NewGormAgreementRepository creates a new GormAgreementRepository
func NewGormAgreementRepository(db *gorm.DB) *GormAgreementRepository {
	return &GormAgreementRepository{db: db}
}

// FindByID finds a rental agreement by its ID
func (r *GormAgreementRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalAgreement, error) {
	var model models.RentalAgreementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a rental agreement by its agreement number
func (r *GormAgreementRepository) FindByNumber(ctx context.Context, agreementNumber string) (*rental.RentalAgreement, error) {
	var model models.RentalAgreementModel
	if err := r.db.WithContext(ctx).
		Where("agreement_number = ?", agreementNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds rental agreements with filtering
func (r *GormAgreementRepository) FindAll(ctx context.Context, filter rental.AgreementFilter) ([]rental.RentalAgreement, error) {
	var agreementModels []models.RentalAgreementModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.RentalAgreementModel{}), filter)

	if err := query.Find(&agreementModels).Error; err != nil {
		return nil, err
	}
	agreements := make([]rental.RentalAgreement, len(agreementModels))
	for i, model := range agreementModels {
		agreements[i] = *model.ToDomain()
	}
	return agreements, nil
}

// FindByCustomer finds rental agreements for a customer
func (r *GormAgreementRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter rental.AgreementFilter) ([]rental.RentalAgreement, error) {
	filter.CustomerID = &customerID
	return r.FindAll(ctx, filter)
}

// Count counts rental agreements matching the filter
func (r *GormAgreementRepository) Count(ctx context.Context, filter rental.AgreementFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.RentalAgreementModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a rental agreement
func (r *GormAgreementRepository) Save(ctx context.Context, agreement *rental.RentalAgreement) error {
	model := models.RentalAgreementModelFromDomain(agreement)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormAgreementRepository) SaveWithLock(ctx context.Context, agreement *rental.RentalAgreement) error {
	model := models.RentalAgreementModelFromDomain(agreement)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", agreement.ID, agreement.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// GenerateAgreementNumber generates a unique agreement number
func (r *GormAgreementRepository) GenerateAgreementNumber(ctx context.Context) (string, error) {
	// Format: RA-YYYYMMDD-XXXXX
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("RA-%s-", date)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.RentalAgreementModel{}).
		Select("agreement_number").
		Where("agreement_number LIKE ?", prefix+"%").
		Order("agreement_number DESC").
		Limit(1).
		Pluck("agreement_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

func (r *GormAgreementRepository) applyFilter(query *gorm.DB, filter rental.AgreementFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormAgreementRepository) applyFilterWithoutPagination(query *gorm.DB, filter rental.AgreementFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("agreement_number ILIKE ? OR customer_name ILIKE ? OR item_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ItemID != nil {
		query = query.Where("rental_item_id = ?", *filter.ItemID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("start_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("start_date <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormAgreementRepository implements AgreementRepository
var _ rental.AgreementRepository = (*GormAgreementRepository)(nil)
