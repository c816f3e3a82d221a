package commands

import (
	"errors"
	"time"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrPurgeDeletedOrdersCommandIsNotConstructed = errors.New(
	"PurgeDeletedOrdersCommand must be created via NewPurgeDeletedOrdersCommand constructor",
)

// PurgeDeletedOrdersCommand hard-deletes orders soft-deleted more than
// retention ago, at most batchSize per run.
type PurgeDeletedOrdersCommand struct { //nolint:recvcheck //using for validation
	retention time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

// NewPurgeDeletedOrdersCommand requires a positive retention and batch size.
func NewPurgeDeletedOrdersCommand(retention time.Duration, batchSize int) (PurgeDeletedOrdersCommand, error) {
	var retentionErr, batchErr error
	if retention <= 0 {
		retentionErr = errs.NewValueIsOutOfRangeError("retention", retention.String(), "1ns", "unbounded")
	}
	if batchSize <= 0 {
		batchErr = errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	if err := errors.Join(retentionErr, batchErr); err != nil {
		return PurgeDeletedOrdersCommand{}, err
	}

	return PurgeDeletedOrdersCommand{
		retention: retention,
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeDeletedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPurgeDeletedOrdersCommandIsNotConstructed)
}

func (c PurgeDeletedOrdersCommand) Retention() time.Duration { return c.retention }
func (c PurgeDeletedOrdersCommand) BatchSize() int           { return c.batchSize }
