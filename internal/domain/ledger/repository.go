package ledger

import (
	"context"
)

// AccountFilter narrows account catalogue queries
type AccountFilter struct {
	RootType *RootType
	IsGroup  *bool
	Search   string
}

// AccountRepository provides read access to the ledger account catalogue
type AccountRepository interface {
	FindAll(ctx context.Context, filter AccountFilter) ([]Account, error)
}

// AccountMappingRepository provides read access to the persisted mapping rows
type AccountMappingRepository interface {
	FindAll(ctx context.Context) ([]AccountMapping, error)
}
