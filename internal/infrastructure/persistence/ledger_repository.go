package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/rentworks/backend/internal/domain/ledger"
	"github.com/rentworks/backend/internal/infrastructure/persistence/models"
)

// GormAccountRepository implements ledger.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindAll returns accounts matching the filter, ordered by code
func (r *GormAccountRepository) FindAll(ctx context.Context, filter ledger.AccountFilter) ([]ledger.Account, error) {
	var accountModels []models.AccountModel
	query := r.db.WithContext(ctx).Model(&models.AccountModel{})

	if filter.RootType != nil {
		query = query.Where("root_type = ?", *filter.RootType)
	}
	if filter.IsGroup != nil {
		query = query.Where("is_group = ?", *filter.IsGroup)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Order("code ASC").Find(&accountModels).Error; err != nil {
		return nil, err
	}
	accounts := make([]ledger.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// GormAccountMappingRepository implements ledger.AccountMappingRepository using GORM
type GormAccountMappingRepository struct {
	db *gorm.DB
}

// NewGormAccountMappingRepository creates a new GormAccountMappingRepository
func NewGormAccountMappingRepository(db *gorm.DB) *GormAccountMappingRepository {
	return &GormAccountMappingRepository{db: db}
}

// FindAll returns every persisted mapping row
func (r *GormAccountMappingRepository) FindAll(ctx context.Context) ([]ledger.AccountMapping, error) {
	var mappingModels []models.AccountMappingModel
	if err := r.db.WithContext(ctx).Order("mapping_type ASC").Find(&mappingModels).Error; err != nil {
		return nil, err
	}
	mappings := make([]ledger.AccountMapping, len(mappingModels))
	for i, model := range mappingModels {
		mappings[i] = *model.ToDomain()
	}
	return mappings, nil
}

// Ensure the GORM repositories implement the domain interfaces
var (
	_ ledger.AccountRepository        = (*GormAccountRepository)(nil)
	_ ledger.AccountMappingRepository = (*GormAccountMappingRepository)(nil)
)
