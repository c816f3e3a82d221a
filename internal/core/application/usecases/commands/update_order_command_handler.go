package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// UpdateOrderCommandHandler applies status transitions first and then the
// free-form fields, so a rejected transition leaves the order untouched.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      func() time.Time
}

// UpdateOrderResult is the saved order together with the status transitions
// that were actually applied. A requested status equal to the current one is
// not a transition.
type UpdateOrderResult struct {
	Order              *order.Order
	PaymentChanged     bool
	FulfillmentChanged bool
}

// NewUpdateOrderCommandHandler creates a handler for partial order updates.
func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{uowFactory: uowFactory, clock: time.Now}
}

// Handle returns the saved order and which status machines moved.
//
// Example:
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if result.PaymentChanged {
//	    notifyBilling(result.Order)
//	}
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (UpdateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderResult{}, err
	}

	in := cmd.Input()
	var result UpdateOrderResult
	updated, err := withLockedOrder(ctx, h.uowFactory, cmd.OrderID(), ports.ExcludeDeleted, func(o *order.Order, repo ports.OrderRepository) error {
		now := h.clock()
		if in.PaymentStatus != nil && *in.PaymentStatus != o.PaymentStatus() {
			if err := o.ChangePaymentStatus(*in.PaymentStatus, now); err != nil {
				return err
			}
			result.PaymentChanged = true
		}
		if in.FulfillmentStatus != nil && *in.FulfillmentStatus != o.FulfillmentStatus() {
			if err := o.ChangeFulfillmentStatus(*in.FulfillmentStatus, now); err != nil {
				return err
			}
			result.FulfillmentChanged = true
		}
		if in.Notes != nil {
			o.SetNotes(*in.Notes, now)
		}
		if in.Tags != nil {
			o.SetTags(*in.Tags, now)
		}
		if in.PaymentMethod != nil {
			o.SetPaymentMethod(*in.PaymentMethod, now)
		}
		return repo.Update(ctx, o)
	})
	if err != nil {
		return UpdateOrderResult{}, err
	}
	result.Order = updated
	return result, nil
}
