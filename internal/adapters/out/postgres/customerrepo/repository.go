package customerrepo

import (
	"context"
	"errors"

	"storefront/internal/adapters/out/postgres/pgerrs"
	"storefront/internal/core/domain/model/customer"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a repository on db, which may be a pool or
// an open transaction.
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Add inserts a new customer. A second customer with the same normalized email
// is reported as errs.ConflictError.
//
// Example:
//
//	c, _ := customer.NewCustomer(kernel.NewUUID(), "Ada@Example.com", "Ada", "")
//	err := repo.Add(ctx, c)
func (r *GormCustomerRepository) Add(ctx context.Context, c *customer.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "customer")
	}
	return nil
}

// FindByEmail looks a customer up by email, normalizing it first. A missing
// customer is errs.ObjectNotFoundError.
//
// Example:
//
//	c, err := repo.FindByEmail(ctx, " ADA@example.com ")
//	var notFound *errs.ObjectNotFoundError
//	if errors.As(err, &notFound) {
//	    // guest checkout
//	}
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	normalized, err := customer.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return r.take(r.db.WithContext(ctx), normalized, "email = ?", normalized)
}

// GetForUpdate reads the customer with SELECT ... FOR UPDATE. The lock is
// held until the surrounding transaction ends, so concurrent checkouts of one
// customer apply their statistics one after another.
//
// Example:
//
//	c, err := uow.CustomerRepository().GetForUpdate(ctx, customerID)
//	if err != nil {
//	    return err
//	}
//	c.RecordOrder(o.Pricing().Total, now)
//	err = uow.CustomerRepository().UpdateStats(ctx, c)
func (r *GormCustomerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	locked := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.take(locked, id.String(), "id = ?", id.Bytes())
}

// UpdateStats writes only the statistics columns of an existing customer.
func (r *GormCustomerRepository) UpdateStats(ctx context.Context, c *customer.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	result := r.db.WithContext(ctx).
		Model(&CustomerDTO{ID: dto.ID}).
		Select("order_count", "total_spent", "average_order_value", "last_order_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("customer", c.ID().String())
	}
	return nil
}

func (r *GormCustomerRepository) take(db *gorm.DB, key string, query string, args ...any) (*customer.Customer, error) {
	var dto CustomerDTO
	if err := db.Where(query, args...).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customer", key)
		}
		return nil, err
	}
	return toDomain(dto)
}
