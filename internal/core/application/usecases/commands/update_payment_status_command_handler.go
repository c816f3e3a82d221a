package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// UpdatePaymentStatusCommandHandler applies a payment transition to the
// persisted status, read under a row lock in the writing transaction. A rejected
// transition returns errs.StatusTransitionIsInvalidError carrying the current
// status and leaves the order unchanged.
type UpdatePaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      func() time.Time
}

// NewUpdatePaymentStatusCommandHandler creates a payment status handler.
func NewUpdatePaymentStatusCommandHandler(uowFactory OrderUoWFactory) UpdatePaymentStatusCommandHandler {
	return UpdatePaymentStatusCommandHandler{uowFactory: uowFactory, clock: time.Now}
}

// Handle returns the order after the transition.
//
// Example:
//
//	cmd, _ := NewUpdatePaymentStatusCommand(orderID, order.PaymentPaid)
//	updated, err := handler.Handle(ctx, cmd)
func (h *UpdatePaymentStatusCommandHandler) Handle(ctx context.Context, cmd UpdatePaymentStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return withLockedOrder(ctx, h.uowFactory, cmd.OrderID(), ports.ExcludeDeleted, func(o *order.Order, repo ports.OrderRepository) error {
		if err := o.ChangePaymentStatus(cmd.Status(), h.clock()); err != nil {
			return err
		}
		return repo.Update(ctx, o)
	})
}
