package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// DeleteOrderCommandHandler enforces the deletion policy on the locked order.
// Hard deletes also reach orders that are already soft-deleted. Stock is not
// restored.
type DeleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      func() time.Time
}

// NewDeleteOrderCommandHandler creates a handler for soft and hard deletes.
func NewDeleteOrderCommandHandler(uowFactory OrderUoWFactory) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{uowFactory: uowFactory, clock: time.Now}
}

// Handle deletes the order. Paid orders cannot be deleted; the refusal is a
// validation error and leaves the order untouched.
//
// Example:
//
//	cmd, _ := NewDeleteOrderCommand(orderID, false)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return err
//	}
func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	scope := ports.ExcludeDeleted
	if cmd.Hard() {
		scope = ports.IncludeDeleted
	}

	_, err := withLockedOrder(ctx, h.uowFactory, cmd.OrderID(), scope, func(o *order.Order, repo ports.OrderRepository) error {
		if err := o.Delete(cmd.Hard(), h.clock()); err != nil {
			return err
		}
		if cmd.Hard() {
			return repo.Delete(ctx, o)
		}
		return repo.Update(ctx, o)
	})
	return err
}
