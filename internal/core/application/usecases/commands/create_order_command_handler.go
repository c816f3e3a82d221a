package commands

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// Checkout groups the pricing collaborators of order creation.
type Checkout struct {
	Resolver  services.ItemResolver
	Pricing   services.PricingEngine
	Discounts services.DiscountResolver
	Shipping  services.ShippingPolicy
	Currency  string
	Clock     func() time.Time
}

// CreateOrderCommandHandler runs the checkout pipeline: resolve items from the
// catalog, allocate a number, price the order, link the customer, then persist
// the order, reserve stock and update customer statistics in one transaction.
// Any failure rolls back everything.
type CreateOrderCommandHandler struct {
	uowFactory CheckoutUoWFactory
	checkout   Checkout
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates the checkout handler. A nil clock in
// checkout defaults to time.Now.
//
// Example:
//
//	resolver, _ := services.NewItemResolver(1000, 100)
//	pricing, _ := services.NewPricingEngine(decimal.RequireFromString("0.18"))
//	handler := NewCreateOrderCommandHandler(NewCheckoutUoWFactory(uowFactory), Checkout{
//	    Resolver:  resolver,
//	    Pricing:   pricing,
//	    Discounts: services.NewNoDiscount(logger),
//	    Shipping:  services.PassthroughShipping{},
//	    Currency:  "USD",
//	}, logger)
func NewCreateOrderCommandHandler(
	uowFactory CheckoutUoWFactory,
	checkout Checkout,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if checkout.Clock == nil {
		checkout.Clock = time.Now
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		checkout:   checkout,
		logger:     logger.With("component", "create_order"),
	}
}

// Handle places the order and returns it as persisted. Stock shortfalls are
// errs.InsufficientStockError, unknown products errs.ObjectNotFoundError.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	products := uow.ProductRepository()
	orders := uow.OrderRepository()
	customers := uow.CustomerRepository()

	items, err := h.checkout.Resolver.Resolve(ctx, products, cmd.Items())
	if err != nil {
		return nil, err
	}

	pricing, err := h.price(ctx, cmd, items)
	if err != nil {
		return nil, err
	}

	customerID, guestToken, err := linkCustomer(ctx, customers, cmd.Email())
	if err != nil {
		return nil, err
	}

	number, err := orders.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	created, err := order.NewOrder(order.Params{
		ID:              kernel.NewUUID(),
		Number:          number,
		CustomerID:      customerID,
		GuestToken:      guestToken,
		Contact:         cmd.Contact(),
		Items:           items,
		ShippingAddress: cmd.ShippingAddress(),
		Pricing:         pricing,
		Currency:        h.checkout.Currency,
		DiscountCode:    cmd.DiscountCode(),
		Tags:            cmd.Tags(),
		Notes:           cmd.Notes(),
		PaymentMethod:   cmd.PaymentMethod(),
		CreatedBy:       cmd.CreatedBy(),
	}, h.checkout.Clock())
	if err != nil {
		return nil, err
	}

	if err = orders.Add(ctx, created); err != nil {
		return nil, err
	}

	if err = reserveStock(ctx, products, items); err != nil {
		return nil, err
	}

	if customerID != nil {
		if err = recordCustomerOrder(ctx, customers, *customerID, created); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order created",
		"order_id", created.ID().String(),
		"number", created.Number().String(),
		"total", created.Pricing().Total.String(),
		"guest", created.IsGuest(),
	)
	return created, nil
}

func (h *CreateOrderCommandHandler) price(ctx context.Context, cmd CreateOrderCommand, items []order.Item) (order.Pricing, error) {
	discount, err := h.checkout.Discounts.Resolve(ctx, cmd.DiscountCode(), order.SubtotalOf(items))
	if err != nil {
		return order.Pricing{}, err
	}

	shippingCost, err := h.checkout.Shipping.Cost(ctx, cmd.ShippingCost(), cmd.ShippingAddress())
	if err != nil {
		return order.Pricing{}, err
	}

	return h.checkout.Pricing.Compute(items, discount, shippingCost)
}

// linkCustomer returns the id of the customer using email, or a fresh guest token.
func linkCustomer(ctx context.Context, customers ports.CustomerRepository, email string) (*kernel.UUID, string, error) {
	found, err := customers.FindByEmail(ctx, email)
	switch {
	case err == nil:
		id := found.ID()
		return &id, "", nil
	case errors.Is(err, errs.ErrObjectNotFound):
		return nil, kernel.NewUUID().String(), nil
	default:
		return nil, "", err
	}
}

// reserveStock decrements stock per product in id order, so concurrent
// checkouts lock product rows in the same sequence.
func reserveStock(ctx context.Context, products ports.ProductRepository, items []order.Item) error {
	quantities := make(map[kernel.UUID]int, len(items))
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := quantities[item.ProductID()]; !ok {
			ids = append(ids, item.ProductID())
		}
		quantities[item.ProductID()] += item.Quantity()
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := products.DecrementStock(ctx, id, quantities[id]); err != nil {
			return err
		}
	}
	return nil
}

func recordCustomerOrder(ctx context.Context, customers ports.CustomerRepository, id kernel.UUID, o *order.Order) error {
	c, err := customers.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	c.RecordOrder(o.Pricing().Total, o.CreatedAt())
	return customers.UpdateStats(ctx, c)
}
