// Package commands contains the write operations of the order engine.
// Every command is built through its constructor, validated, and handled
// inside a single unit of work.
package commands

import (
	"context"

	"storefront/internal/core/ports"
)

// Unit of Work interfaces narrowed to what each handler touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	// OrderUoW manages transactions that only touch orders: status changes,
	// updates, deletion and purge.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CheckoutUoW spans every aggregate written by order creation.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   items, err := resolver.Resolve(ctx, uow.ProductRepository(), lines)
	//   err = uow.OrderRepository().Add(ctx, o)
	//   err = uow.ProductRepository().DecrementStock(ctx, id, qty)
	//
	//   err = uow.Commit(ctx)
	CheckoutUoW interface {
		TxManager
		OrderRepoFactory
		ProductRepoFactory
		CustomerRepoFactory
	}

	CheckoutUoWFactory interface {
		Create() CheckoutUoW
	}
)

// checkoutUoWFactory and orderUoWFactory narrow a ports.UnitOfWorkFactory.
type checkoutUoWFactory struct{ factory ports.UnitOfWorkFactory }

func (f checkoutUoWFactory) Create() CheckoutUoW { return f.factory.Create() }

type orderUoWFactory struct{ factory ports.UnitOfWorkFactory }

func (f orderUoWFactory) Create() OrderUoW { return f.factory.Create() }

// NewCheckoutUoWFactory narrows a full unit of work factory for order creation.
func NewCheckoutUoWFactory(factory ports.UnitOfWorkFactory) CheckoutUoWFactory {
	return checkoutUoWFactory{factory: factory}
}

// NewOrderUoWFactory narrows a full unit of work factory for order-only commands.
func NewOrderUoWFactory(factory ports.UnitOfWorkFactory) OrderUoWFactory {
	return orderUoWFactory{factory: factory}
}
