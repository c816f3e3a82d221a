package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery or NewGetOrderByNumberQuery",
)

// GetOrderQuery looks up one live order by id or by number.
//
// Example:
//
//	query, err := NewGetOrderByNumberQuery(1001)
//	view, err := handler.Handle(ctx, query)
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	id     *kernel.UUID
	number order.Number

	guard guard.ConstructorGuard
}

// NewGetOrderQuery looks an order up by id.
func NewGetOrderQuery(id kernel.UUID) (GetOrderQuery, error) {
	if err := id.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{id: &id, guard: guard.NewConstructorGuard()}, nil
}

// NewGetOrderByNumberQuery looks an order up by number. Use order.ParseNumber
// for numbers given as "#1001".
func NewGetOrderByNumberQuery(number order.Number) (GetOrderQuery, error) {
	if err := number.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{number: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through one of the constructors.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderReader is the read side of ports.OrderRepository.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID, scope ports.ReadScope) (*order.Order, error)
	GetByNumber(ctx context.Context, number order.Number, scope ports.ReadScope) (*order.Order, error)
}

// GetOrderQueryHandler reads a full order through the repository.
type GetOrderQueryHandler struct {
	orders OrderReader
}

// NewGetOrderQueryHandler creates a handler on orders.
func NewGetOrderQueryHandler(orders OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

// Handle returns errs.ObjectNotFoundError for unknown and soft-deleted orders.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var (
		o   *order.Order
		err error
	)
	if query.id != nil {
		o, err = h.orders.Get(ctx, *query.id, ports.ExcludeDeleted)
	} else {
		o, err = h.orders.GetByNumber(ctx, query.number, ports.ExcludeDeleted)
	}
	if err != nil {
		return OrderView{}, err
	}
	return NewOrderView(o), nil
}
