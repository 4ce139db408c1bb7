package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
	"github.com/rentworks/backend/internal/infrastructure/persistence/models"
)

// setupItemDB creates an in-memory SQLite database with the rental_items schema
func setupItemDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RentalItemModel{}))

	return db
}

func newStoredTestItem(t *testing.T, name string, quantity int) *rental.RentalItem {
	t.Helper()
	item, err := rental.NewRentalItem(name, "SKU-"+name, valueobject.NewMoneyFromFloat(25), quantity)
	require.NoError(t, err)
	return item
}

func TestGormItemRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormItemRepository(setupItemDB(t))

	item := newStoredTestItem(t, "Excavator", 5)
	require.NoError(t, repo.Save(ctx, item))

	t.Run("round trips the stored item", func(t *testing.T) {
		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)

		assert.Equal(t, item.ID, found.ID)
		assert.Equal(t, "Excavator", found.Name)
		assert.Equal(t, "SKU-Excavator", found.SKU)
		assert.Equal(t, 5, found.QuantityTotal)
		assert.Equal(t, 5, found.QuantityAvailable)
		assert.Equal(t, 0, found.QuantityRented)
		assert.Equal(t, 1, found.Version)
		assert.True(t, found.RentalRate.Equal(item.RentalRate))
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormItemRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	repo := NewGormItemRepository(setupItemDB(t))

	require.NoError(t, repo.Save(ctx, newStoredTestItem(t, "Scaffolding", 10)))
	require.NoError(t, repo.Save(ctx, newStoredTestItem(t, "Generator", 3)))

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Ordered by name
	assert.Equal(t, "Generator", items[0].Name)
	assert.Equal(t, "Scaffolding", items[1].Name)
}

func TestGormItemRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	repo := NewGormItemRepository(setupItemDB(t))

	item := newStoredTestItem(t, "Excavator", 5)
	require.NoError(t, repo.Save(ctx, item))

	t.Run("persists when the version matches", func(t *testing.T) {
		require.NoError(t, item.Reserve(2))
		require.Equal(t, 2, item.Version)

		require.NoError(t, repo.SaveWithLock(ctx, item))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, found.QuantityAvailable)
		assert.Equal(t, 2, found.QuantityRented)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		stale := *item // still at version 2, DB already holds version 2
		err := repo.SaveWithLock(ctx, &stale)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})
}
