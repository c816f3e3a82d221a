package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// ReadScope selects whether soft-deleted orders are visible to a read.
type ReadScope int

const (
	// ExcludeDeleted is the default scope of every read.
	ExcludeDeleted ReadScope = iota
	IncludeDeleted
)

// OrderRepository persists order aggregates together with their items and
// shipping address.
type OrderRepository interface {
	// Add inserts the order, its items and its shipping address.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the mutable fields of an order: statuses, notes, tags,
	// payment method and the deletion mark. Items and money are never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID, scope ReadScope) (*order.Order, error)

	GetByNumber(ctx context.Context, number order.Number, scope ReadScope) (*order.Order, error)

	// GetForUpdate reads the order and locks its row until the surrounding
	// transaction ends, so status checks see the persisted state.
	GetForUpdate(ctx context.Context, id kernel.UUID, scope ReadScope) (*order.Order, error)

	// Delete physically removes the order; items and address cascade.
	Delete(ctx context.Context, aggregate *order.Order) error

	// NextNumber allocates a unique, strictly increasing order number.
	// Numbers of rolled back transactions are not reused.
	NextNumber(ctx context.Context) (order.Number, error)

	// ListDeletedBefore returns up to limit orders soft-deleted before cutoff, locked.
	ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}
