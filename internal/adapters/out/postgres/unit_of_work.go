// Package postgres provides the GORM implementation of the Unit of Work used by
// every order command.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// after Begin share that transaction and register the aggregates they save.
// Once Commit succeeds, the events recorded on those aggregates are handed to
// the configured ports.EventPublisher. A rolled back unit of work publishes
// nothing.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.ProductRepository().DecrementStock(ctx, id, qty); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Multiple goroutines must use separate UnitOfWork instances.
package postgres

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/adapters/out/postgres/customerrepo"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/postgres/productrepo"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"gorm.io/gorm"
)

// DefaultPublishTimeout bounds how long Commit waits for the event publisher.
const DefaultPublishTimeout = 2 * time.Second

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	Events() []order.Event
	ClearEvents()
}

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM connection
// pool. Every business operation gets a fresh instance.
//
// Example:
//
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
type GormUnitOfWorkFactory struct {
	db             *gorm.DB
	publisher      ports.EventPublisher
	publishTimeout time.Duration
	logger         *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory whose units of work publish
// committed events to publisher. A nil publisher discards events.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    return err
//	}
//	factory := NewGormUnitOfWorkFactory(db, kafkaPublisher, logger)
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:             db,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		logger:         logger.With("component", "unit_of_work"),
	}
}

// WithPublishTimeout changes how long Commit waits for the publisher before
// giving up on the events. Non-positive values are ignored.
//
// Example:
//
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger).
//	    WithPublishTimeout(500 * time.Millisecond)
func (f *GormUnitOfWorkFactory) WithPublishTimeout(timeout time.Duration) *GormUnitOfWorkFactory {
	if timeout > 0 {
		f.publishTimeout = timeout
	}
	return f
}

// Create produces a unit of work with its own transaction state and tracking.
//
// Example:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		publishTimeout:    f.publishTimeout,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork wraps one transaction and the aggregates saved in it.
// Repositories handed out before Begin run on the pool, outside any
// transaction.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	publishTimeout    time.Duration
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while a transaction is open
// is a no-op.
//
// Example:
//
//	if err := uow.Begin(ctx); err != nil {
//	    return fmt.Errorf("begin checkout: %w", err)
//	}
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

// Commit makes the transaction's changes permanent and then publishes the
// events of every tracked aggregate. Publishing runs detached from ctx
// cancellation and is cut off after the factory's publish timeout. Publishing
// failures are logged; the committed data stays.
//
// Example:
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards the transaction and everything tracked in it. It returns
// gorm.ErrInvalidTransaction when no transaction is open, which makes the
// deferred call after a successful Commit harmless.
//
// Example:
//
//	defer func() { _ = uow.Rollback(ctx) }()
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository returns an order repository bound to the current
// transaction. Saved orders are tracked for event publishing.
//
// Example:
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id, ports.ExcludeDeleted)
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// ProductRepository returns a product repository bound to the current
// transaction.
//
// Example:
//
//	err := uow.ProductRepository().DecrementStock(ctx, productID, 2)
func (uow *GormUnitOfWork) ProductRepository() ports.ProductRepository {
	return productrepo.NewGormProductRepository(uow.conn())
}

// CustomerRepository returns a customer repository bound to the current
// transaction.
//
// Example:
//
//	c, err := uow.CustomerRepository().FindByEmail(ctx, "ada@example.com")
func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(uow.conn())
}

// TrackAggregate registers an aggregate saved within this unit of work.
// Tracking the same aggregate twice keeps a single entry.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for _, tracked := range uow.trackedAggregates {
		if tracked.Aggregate == aggregate {
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the pool before Begin.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// publishEvents drains the events of every tracked aggregate and hands them
// to the publisher in one call.
func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	var events []order.Event
	for _, t := range tracked {
		source, ok := t.Aggregate.(eventSource)
		if !ok {
			continue
		}
		events = append(events, source.Events()...)
		source.ClearEvents()
	}
	if len(events) == 0 || uow.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uow.publishTimeout)
	defer cancel()

	if err := uow.publisher.Publish(publishCtx, events...); err != nil {
		uow.logger.ErrorContext(ctx, "failed to publish order events",
			"events", len(events),
			"timeout", uow.publishTimeout,
			"error", err)
	}
}
