package commands

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var ErrDuplicateOrderCommandIsNotConstructed = errors.New(
	"DuplicateOrderCommand must be created via NewDuplicateOrderCommand constructor",
)

// DuplicateOrderCommand places a new order modeled on an existing one.
// createdBy names the actor of the new order, not of the source.
type DuplicateOrderCommand struct { //nolint:recvcheck //using for validation
	sourceID  kernel.UUID
	createdBy string

	guard guard.ConstructorGuard
}

// NewDuplicateOrderCommand creates a duplicate request for sourceID.
func NewDuplicateOrderCommand(sourceID kernel.UUID, createdBy string) (DuplicateOrderCommand, error) {
	if err := sourceID.Validate(); err != nil {
		return DuplicateOrderCommand{}, err
	}
	return DuplicateOrderCommand{
		sourceID:  sourceID,
		createdBy: strings.TrimSpace(createdBy),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DuplicateOrderCommand) Validate() error {
	return c.guard.Validate(ErrDuplicateOrderCommandIsNotConstructed)
}

func (c DuplicateOrderCommand) SourceID() kernel.UUID { return c.sourceID }
func (c DuplicateOrderCommand) CreatedBy() string     { return c.createdBy }
