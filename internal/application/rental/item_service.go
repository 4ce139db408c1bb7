package rental

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
)

// ItemService manages the rentable item catalogue
type ItemService struct {
	itemRepo rental.ItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo rental.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItemCommand carries the inputs for registering a rentable item
type CreateItemCommand struct {
	Name       string
	SKU        string
	RentalRate decimal.Decimal
	Quantity   int
}

// CreateItem registers a rentable item with its full quantity available
func (s *ItemService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*rental.RentalItem, error) {
	item, err := rental.NewRentalItem(cmd.Name, cmd.SKU, valueobject.NewMoneyFromDecimal(cmd.RentalRate), cmd.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns one item by id
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*rental.RentalItem, error) {
	return s.itemRepo.FindByID(ctx, id)
}

// ListItems returns the whole item catalogue
func (s *ItemService) ListItems(ctx context.Context) ([]rental.RentalItem, error) {
	return s.itemRepo.FindAll(ctx)
}
