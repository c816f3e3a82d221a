package orderrepo

import (
	"context"
	"errors"
	"time"

	"storefront/internal/adapters/out/postgres/pgerrs"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequence allocates order numbers. It is created by the migrations.
const NumberSequence = "order_number_seq"

// mutableColumns are the only columns Update writes.
var mutableColumns = []string{
	"payment_status", "fulfillment_status", "notes", "tags", "payment_method", "deleted_at", "updated_at",
}

// GormOrderRepository implements ports.OrderRepository using GORM. Every
// aggregate it saves or deletes is reported to the unit of work's tracker.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives aggregates whose events are published on commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a repository on db, which may be a pool or an
// open transaction.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order with its items and shipping address.
//
// Example:
//
//	number, err := repo.NextNumber(ctx)
//	if err != nil {
//	    return err
//	}
//	o, _ := order.NewOrder(order.Params{ID: kernel.NewUUID(), Number: number, ...}, now)
//	err = repo.Add(ctx, o)
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "order")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the mutable columns of an existing order: statuses, notes,
// tags, payment method and the soft-delete mark. Items, pricing and the
// address are immutable after creation.
//
// Example:
//
//	o, err := repo.GetForUpdate(ctx, id, ports.ExcludeDeleted)
//	if err != nil {
//	    return err
//	}
//	if err = o.ChangePaymentStatus(order.PaymentPaid, now); err != nil {
//	    return err
//	}
//	err = repo.Update(ctx, o)
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{ID: dto.ID}).
		Select(mutableColumns).
		Omit(clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "order")
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get reads an order by id. With ports.ExcludeDeleted a soft-deleted order is
// reported as errs.ObjectNotFoundError.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID, scope ports.ReadScope) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.scoped(ctx, scope), "order", id.String(), "id = ?", id.Bytes())
}

// GetByNumber reads an order by its human-facing number.
//
// Example:
//
//	number, _ := order.ParseNumber("#1001")
//	o, err := repo.GetByNumber(ctx, number, ports.ExcludeDeleted)
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number order.Number, scope ports.ReadScope) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}
	return r.first(r.scoped(ctx, scope), "order", number.String(), "number = ?", number.Int64())
}

// GetForUpdate reads an order with SELECT ... FOR UPDATE. Concurrent status
// changes of one order wait for each other until the transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID, scope ports.ReadScope) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	locked := r.scoped(ctx, scope).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.first(locked, "order", id.String(), "id = ?", id.Bytes())
}

// Delete removes the order row for good. Items and the address go with it
// through ON DELETE CASCADE.
func (r *GormOrderRepository) Delete(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", aggregate.ID().Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// NextNumber draws the next value from NumberSequence. Numbers drawn by rolled
// back transactions are not reused.
func (r *GormOrderRepository) NextNumber(ctx context.Context) (order.Number, error) {
	var next int64
	if err := r.db.WithContext(ctx).Raw("SELECT nextval('" + NumberSequence + "')").Scan(&next).Error; err != nil {
		return 0, err
	}
	number := order.Number(next)
	return number, number.Validate()
}

// ListDeletedBefore locks up to limit orders soft-deleted before cutoff,
// oldest first. Rows locked by another purge are skipped.
func (r *GormOrderRepository) ListDeletedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.preloaded(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff.UTC()).
		Order("deleted_at").
		Limit(limit).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// preloaded loads items in submitted order together with the address.
func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("ShippingAddress")
}

func (r *GormOrderRepository) scoped(ctx context.Context, scope ports.ReadScope) *gorm.DB {
	db := r.preloaded(ctx)
	if scope == ports.ExcludeDeleted {
		db = db.Where("deleted_at IS NULL")
	}
	return db
}

func (r *GormOrderRepository) first(db *gorm.DB, param, key string, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	if err := db.Where(query, args...).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, key)
		}
		return nil, err
	}
	return toDomain(dto)
}
