package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"
)

var ErrUpdateFulfillmentStatusCommandIsNotConstructed = errors.New(
	"UpdateFulfillmentStatusCommand must be created via NewUpdateFulfillmentStatusCommand constructor",
)

// UpdateFulfillmentStatusCommand moves an order to a new fulfillment status.
type UpdateFulfillmentStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.FulfillmentStatus

	guard guard.ConstructorGuard
}

// NewUpdateFulfillmentStatusCommand rejects unknown statuses. Whether the
// transition is allowed is decided against the stored order.
func NewUpdateFulfillmentStatusCommand(
	orderID kernel.UUID,
	status order.FulfillmentStatus,
) (UpdateFulfillmentStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return UpdateFulfillmentStatusCommand{}, err
	}
	return UpdateFulfillmentStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateFulfillmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateFulfillmentStatusCommandIsNotConstructed)
}

func (c UpdateFulfillmentStatusCommand) OrderID() kernel.UUID            { return c.orderID }
func (c UpdateFulfillmentStatusCommand) Status() order.FulfillmentStatus { return c.status }
