package cmd

import (
	"fmt"
	"log/slog"

	httpadapter "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	checkout   commands.Checkout
	logger     *slog.Logger
}

// NewCompositionRoot wires the use cases. publisher may be nil, in which case
// committed events are dropped.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	resolver, err := services.NewItemResolver(config.OrderMaxItemQuantity, config.OrderMaxItems)
	if err != nil {
		return nil, fmt.Errorf("invalid order limits: %w", err)
	}
	pricing, err := services.NewPricingEngine(config.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid tax rate: %w", err)
	}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		checkout: commands.Checkout{
			Resolver:  resolver,
			Pricing:   pricing,
			Discounts: services.NewNoDiscount(logger),
			Shipping:  services.PassthroughShipping{},
			Currency:  config.OrderCurrency,
		},
		logger: logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(commands.NewCheckoutUoWFactory(c.uowFactory), c.checkout, c.logger)
	return &h
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() *commands.UpdateOrderCommandHandler {
	h := commands.NewUpdateOrderCommandHandler(commands.NewOrderUoWFactory(c.uowFactory))
	return &h
}

func (c *CompositionRoot) CreateUpdatePaymentStatusCommandHandler() *commands.UpdatePaymentStatusCommandHandler {
	h := commands.NewUpdatePaymentStatusCommandHandler(commands.NewOrderUoWFactory(c.uowFactory))
	return &h
}

func (c *CompositionRoot) CreateUpdateFulfillmentStatusCommandHandler() *commands.UpdateFulfillmentStatusCommandHandler {
	h := commands.NewUpdateFulfillmentStatusCommandHandler(commands.NewOrderUoWFactory(c.uowFactory))
	return &h
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() *commands.DeleteOrderCommandHandler {
	h := commands.NewDeleteOrderCommandHandler(commands.NewOrderUoWFactory(c.uowFactory))
	return &h
}

func (c *CompositionRoot) CreateDuplicateOrderCommandHandler() *commands.DuplicateOrderCommandHandler {
	h := commands.NewDuplicateOrderCommandHandler(commands.NewOrderUoWFactory(c.uowFactory), c.CreateCreateOrderCommandHandler())
	return &h
}

func (c *CompositionRoot) CreatePurgeDeletedOrdersCommandHandler() *commands.PurgeDeletedOrdersCommandHandler {
	h := commands.NewPurgeDeletedOrdersCommandHandler(commands.NewOrderUoWFactory(c.uowFactory))
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateOrderStatsQueryHandler() queries.OrderStatsQueryHandler {
	return queries.NewOrderStatsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateExportOrdersQueryHandler() queries.ExportOrdersQueryHandler {
	return queries.NewExportOrdersQueryHandler(c.gormDB)
}

// HTTPHandlers groups every use case served by the HTTP adapter.
func (c *CompositionRoot) HTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		Create:            c.CreateCreateOrderCommandHandler(),
		Update:            c.CreateUpdateOrderCommandHandler(),
		PaymentStatus:     c.CreateUpdatePaymentStatusCommandHandler(),
		FulfillmentStatus: c.CreateUpdateFulfillmentStatusCommandHandler(),
		Delete:            c.CreateDeleteOrderCommandHandler(),
		Duplicate:         c.CreateDuplicateOrderCommandHandler(),
		Get:               c.CreateGetOrderQueryHandler(),
		List:              c.CreateListOrdersQueryHandler(),
		Stats:             c.CreateOrderStatsQueryHandler(),
		Export:            c.CreateExportOrdersQueryHandler(),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreatePurgeDeletedOrdersCommandHandler(), jobs.PurgeConfig{
		Schedule:  c.config.PurgeSchedule,
		Retention: c.config.PurgeRetention,
	}, c.logger)
}
