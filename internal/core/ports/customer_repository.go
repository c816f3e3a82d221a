package ports

import (
	"context"

	"storefront/internal/core/domain/model/customer"
	"storefront/internal/core/domain/model/kernel"
)

// CustomerRepository persists customers matched by normalized email.
type CustomerRepository interface {
	// Add fails with errs.ConflictError when the email is taken.
	Add(ctx context.Context, c *customer.Customer) error

	// FindByEmail fails with errs.ObjectNotFoundError when no customer uses email.
	FindByEmail(ctx context.Context, email string) (*customer.Customer, error)

	// GetForUpdate locks the customer row so concurrent orders serialize their
	// statistics updates.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*customer.Customer, error)

	// UpdateStats writes the order statistics of c.
	UpdateStats(ctx context.Context, c *customer.Customer) error
}
