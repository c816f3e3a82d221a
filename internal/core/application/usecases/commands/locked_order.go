package commands

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// withLockedOrder loads the order under a row lock, runs mutate and commits.
// Nothing is written when mutate fails.
func withLockedOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	id kernel.UUID,
	scope ports.ReadScope,
	mutate func(o *order.Order, repo ports.OrderRepository) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetForUpdate(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	if err = mutate(o, repo); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
