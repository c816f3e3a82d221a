package commands

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// orderCreator is the checkout the duplicate is handed to.
type orderCreator interface {
	Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error)
}

// DuplicateOrderCommandHandler re-runs checkout with the contact, items,
// address and extras of an existing order. Prices and stock are resolved
// again from the catalog; the source order's money is not copied and the
// source is not locked.
type DuplicateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	creator    orderCreator
}

// NewDuplicateOrderCommandHandler creates a handler that reads sources through
// uowFactory and places duplicates through creator.
func NewDuplicateOrderCommandHandler(uowFactory OrderUoWFactory, creator orderCreator) DuplicateOrderCommandHandler {
	return DuplicateOrderCommandHandler{uowFactory: uowFactory, creator: creator}
}

// Handle returns the new order. A soft-deleted source is
// errs.ObjectNotFoundError; products that ran out since are
// errs.InsufficientStockError.
//
// Example:
//
//	cmd, _ := NewDuplicateOrderCommand(sourceID, "support-agent")
//	copy, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(copy.Number()) // a fresh number, current prices
func (h *DuplicateOrderCommandHandler) Handle(ctx context.Context, cmd DuplicateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	source, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.SourceID(), ports.ExcludeDeleted)
	if err != nil {
		return nil, err
	}

	createCmd, err := NewCreateOrderCommand(duplicateInput(source, cmd.CreatedBy()))
	if err != nil {
		return nil, err
	}

	return h.creator.Handle(ctx, createCmd)
}

// duplicateInput rebuilds a checkout request from source. The shipping cost is
// carried over; item prices are not.
func duplicateInput(source *order.Order, createdBy string) CreateOrderInput {
	sourceItems := source.Items()
	lines := make([]services.RequestedItem, 0, len(sourceItems))
	for _, item := range sourceItems {
		lines = append(lines, services.RequestedItem{
			ProductID: item.ProductID(),
			VariantID: item.VariantID(),
			Quantity:  item.Quantity(),
		})
	}

	contact := source.Contact()
	return CreateOrderInput{
		Email:           contact.Email,
		Name:            contact.Name,
		Phone:           contact.Phone,
		Items:           lines,
		ShippingAddress: source.ShippingAddress(),
		ShippingCost:    source.Pricing().ShippingCost.Decimal(),
		DiscountCode:    source.DiscountCode(),
		Tags:            source.Tags(),
		Notes:           source.Notes(),
		PaymentMethod:   source.PaymentMethod(),
		CreatedBy:       createdBy,
	}
}
