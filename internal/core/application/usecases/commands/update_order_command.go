package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderInput lists the mutable fields of an order. Nil fields are left
// unchanged. Items and monetary fields cannot be updated.
type UpdateOrderInput struct {
	Notes             *string
	Tags              *[]string
	PaymentMethod     *string
	PaymentStatus     *order.PaymentStatus
	FulfillmentStatus *order.FulfillmentStatus
}

// UpdateOrderCommand changes the mutable fields of one order.
//
// Example:
//
//	notes := "leave at reception"
//	cmd, err := NewUpdateOrderCommand(orderID, UpdateOrderInput{Notes: &notes})
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	input   UpdateOrderInput

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand rejects an input with no fields set and unknown
// statuses.
func NewUpdateOrderCommand(orderID kernel.UUID, in UpdateOrderInput) (UpdateOrderCommand, error) {
	var paymentErr, fulfillmentErr, emptyErr error
	if in.PaymentStatus != nil {
		paymentErr = in.PaymentStatus.Validate()
	}
	if in.FulfillmentStatus != nil {
		fulfillmentErr = in.FulfillmentStatus.Validate()
	}
	if in == (UpdateOrderInput{}) {
		emptyErr = errs.NewValueIsRequiredErrorWithCause("update", errors.New("no fields to update"))
	}

	if err := errors.Join(orderID.Validate(), paymentErr, fulfillmentErr, emptyErr); err != nil {
		return UpdateOrderCommand{}, err
	}

	return UpdateOrderCommand{
		orderID: orderID,
		input:   in,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c UpdateOrderCommand) Input() UpdateOrderInput { return c.input }
