package rental

import (
	"fmt"
	"time"

	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RentalItem is the inventory view of a rentable item. Stock movements are
// owned by the inventory collaborator; this core only reserves quantity when
// an agreement is created and restores it when the item comes back.
type RentalItem struct {
	shared.BaseAggregateRoot
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	RentalRate        decimal.Decimal `json:"rental_rate"`
	QuantityTotal     int             `json:"quantity_total"`
	QuantityAvailable int             `json:"quantity_available"`
	QuantityRented    int             `json:"quantity_rented"`
}

// NewRentalItem creates a rentable item with its full quantity available
func NewRentalItem(name, sku string, rate valueobject.Money, quantity int) (*RentalItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rental rate cannot be negative")
	}
	return &RentalItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		RentalRate:        rate.Amount(),
		QuantityTotal:     quantity,
		QuantityAvailable: quantity,
	}, nil
}

// Reserve takes quantity out of availability for a new agreement.
// Refused with a validation error when not enough is available.
func (i *RentalItem) Reserve(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Rented quantity must be positive")
	}
	if quantity > i.QuantityAvailable {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Requested quantity %d exceeds available quantity %d", quantity, i.QuantityAvailable))
	}
	i.QuantityAvailable -= quantity
	i.QuantityRented += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Restock returns quantity to availability after a return. Clamped so a
// double restock cannot push availability past the total.
func (i *RentalItem) Restock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Restocked quantity must be positive")
	}
	i.QuantityAvailable += quantity
	if i.QuantityAvailable > i.QuantityTotal {
		i.QuantityAvailable = i.QuantityTotal
	}
	i.QuantityRented -= quantity
	if i.QuantityRented < 0 {
		i.QuantityRented = 0
	}
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}
