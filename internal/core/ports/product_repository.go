package ports

import (
	"context"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
)

// ProductRepository is the narrow view of the catalog the order core needs.
type ProductRepository interface {
	Add(ctx context.Context, product *catalog.Product) error

	// Update rewrites a product's name, price, stock and variants.
	Update(ctx context.Context, product *catalog.Product) error

	// Get returns the product even when it is soft-deleted.
	Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error)

	// DecrementStock atomically reserves quantity units. It fails with
	// errs.InsufficientStockError when fewer units remain, leaving stock untouched.
	DecrementStock(ctx context.Context, id kernel.UUID, quantity int) error
}
