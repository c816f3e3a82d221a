package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// UpdateFulfillmentStatusCommandHandler applies a fulfillment transition to
// the order read under a row lock. A rejected transition returns
// errs.StatusTransitionIsInvalidError and leaves the order unchanged.
type UpdateFulfillmentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      func() time.Time
}

// NewUpdateFulfillmentStatusCommandHandler creates a fulfillment status handler.
func NewUpdateFulfillmentStatusCommandHandler(uowFactory OrderUoWFactory) UpdateFulfillmentStatusCommandHandler {
	return UpdateFulfillmentStatusCommandHandler{uowFactory: uowFactory, clock: time.Now}
}

// Handle returns the order after the transition.
//
// Example:
//
//	cmd, _ := NewUpdateFulfillmentStatusCommand(orderID, order.FulfillmentPartial)
//	updated, err := handler.Handle(ctx, cmd)
//	var rejected *errs.StatusTransitionIsInvalidError
//	if errors.As(err, &rejected) {
//	    fmt.Println("still", rejected.From)
//	}
func (h *UpdateFulfillmentStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateFulfillmentStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return withLockedOrder(ctx, h.uowFactory, cmd.OrderID(), ports.ExcludeDeleted, func(o *order.Order, repo ports.OrderRepository) error {
		if err := o.ChangeFulfillmentStatus(cmd.Status(), h.clock()); err != nil {
			return err
		}
		return repo.Update(ctx, o)
	})
}
