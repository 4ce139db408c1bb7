package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/infrastructure/persistence/models"
)

// GormItemRepository implements rental.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds a rental item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.RentalItem, error) {
	var model models.RentalItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all rental items ordered by name
func (r *GormItemRepository) FindAll(ctx context.Context) ([]rental.RentalItem, error) {
	var itemModels []models.RentalItemModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]rental.RentalItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a rental item
func (r *GormItemRepository) Save(ctx context.Context, item *rental.RentalItem) error {
	model := models.RentalItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormItemRepository) SaveWithLock(ctx context.Context, item *rental.RentalItem) error {
	model := models.RentalItemModelFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The record has been modified by another transaction")
	}
	return nil
}

// Ensure GormItemRepository implements ItemRepository
var _ rental.ItemRepository = (*GormItemRepository)(nil)
