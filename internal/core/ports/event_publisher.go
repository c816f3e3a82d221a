package ports

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// EventPublisher delivers order events once the transaction that produced them
// has committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...order.Event) error
}
