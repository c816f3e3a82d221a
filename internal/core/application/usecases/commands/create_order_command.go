package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderInput is a checkout request as received from a client.
type CreateOrderInput struct {
	Email           string
	Name            string
	Phone           string
	Items           []services.RequestedItem
	ShippingAddress *order.ShippingAddress
	ShippingCost    decimal.Decimal
	DiscountCode    string
	Tags            []string
	Notes           string
	PaymentMethod   string
	CreatedBy       string
}

// CreateOrderCommand is a checkout request whose shape has been validated.
// Prices, stock and customer linkage are resolved by the handler.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderInput{
//	    Email: "ada@example.com",
//	    Items: []services.RequestedItem{{ProductID: id, Quantity: 2}},
//	    ShippingCost: decimal.NewFromInt(50),
//	})
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	contact         order.Contact
	items           []services.RequestedItem
	shippingAddress *order.ShippingAddress
	shippingCost    decimal.Decimal
	discountCode    string
	tags            []string
	notes           string
	paymentMethod   string
	createdBy       string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand trims and checks the request shape: a valid email, at
// least one line with a positive quantity, a complete shipping address when
// one is given, and a non-negative shipping cost. All problems are reported
// together. Client-supplied prices are not part of the input.
func NewCreateOrderCommand(in CreateOrderInput) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		shippingCost:  in.ShippingCost,
		discountCode:  strings.TrimSpace(in.DiscountCode),
		tags:          order.NormalizeTags(in.Tags),
		notes:         strings.TrimSpace(in.Notes),
		paymentMethod: strings.TrimSpace(in.PaymentMethod),
		createdBy:     strings.TrimSpace(in.CreatedBy),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setContact(in.Email, in.Name, in.Phone),
		cmd.setItems(in.Items),
		cmd.setShippingAddress(in.ShippingAddress),
		cmd.validateShippingCost(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Contact() order.Contact        { return c.contact }
func (c CreateOrderCommand) Email() string                 { return c.contact.Email }
func (c CreateOrderCommand) ShippingCost() decimal.Decimal { return c.shippingCost }
func (c CreateOrderCommand) DiscountCode() string          { return c.discountCode }
func (c CreateOrderCommand) Tags() []string                { return append([]string(nil), c.tags...) }
func (c CreateOrderCommand) Notes() string                 { return c.notes }
func (c CreateOrderCommand) PaymentMethod() string         { return c.paymentMethod }
func (c CreateOrderCommand) CreatedBy() string             { return c.createdBy }

// Items returns a copy of the requested lines.
func (c CreateOrderCommand) Items() []services.RequestedItem {
	return append([]services.RequestedItem(nil), c.items...)
}

// ShippingAddress returns a copy of the address, or nil when none was given.
func (c CreateOrderCommand) ShippingAddress() *order.ShippingAddress {
	if c.shippingAddress == nil {
		return nil
	}
	addr := *c.shippingAddress
	return &addr
}

func (c *CreateOrderCommand) setContact(email, name, phone string) error {
	contact, err := order.NewContact(email, name, phone)
	if err != nil {
		return err
	}
	c.contact = contact
	return nil
}

func (c *CreateOrderCommand) setItems(items []services.RequestedItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("product id", err)
		}
		if item.VariantID != nil {
			if err := item.VariantID.Validate(); err != nil {
				return errs.NewValueIsInvalidErrorWithCause("variant id", err)
			}
		}
	}
	c.items = append([]services.RequestedItem(nil), items...)
	return nil
}

func (c *CreateOrderCommand) setShippingAddress(address *order.ShippingAddress) error {
	if address == nil {
		return nil
	}
	normalized, err := order.NewShippingAddress(*address)
	if err != nil {
		return err
	}
	c.shippingAddress = &normalized
	return nil
}

func (c *CreateOrderCommand) validateShippingCost() error {
	if c.shippingCost.IsNegative() {
		return errs.NewValueIsOutOfRangeError("shipping cost", c.shippingCost.String(), "0", "unbounded")
	}
	return nil
}
