package commands

import (
	"context"
	"time"
)

// PurgeDeletedOrdersCommandHandler removes one batch of expired soft-deleted
// orders per call, in a single transaction. Batches locked by a concurrent
// purge are skipped rather than waited for.
//
// Example:
//
//	cmd, _ := NewPurgeDeletedOrdersCommand(30*24*time.Hour, 500)
//	for {
//	    purged, err := handler.Handle(ctx, cmd)
//	    if err != nil || purged < cmd.BatchSize() {
//	        break
//	    }
//	}
type PurgeDeletedOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      func() time.Time
}

// NewPurgeDeletedOrdersCommandHandler creates a purge handler.
func NewPurgeDeletedOrdersCommandHandler(uowFactory OrderUoWFactory) PurgeDeletedOrdersCommandHandler {
	return PurgeDeletedOrdersCommandHandler{uowFactory: uowFactory, clock: time.Now}
}

// Handle returns the number of orders removed.
func (h *PurgeDeletedOrdersCommandHandler) Handle(ctx context.Context, cmd PurgeDeletedOrdersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	repo := uow.OrderRepository()
	expired, err := repo.ListDeletedBefore(ctx, now.Add(-cmd.Retention()), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	for _, o := range expired {
		if err = o.Delete(true, now); err != nil {
			return 0, err
		}
		if err = repo.Delete(ctx, o); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(expired), nil
}
