package postgres_test

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	postgres_adapter "storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/pgtest"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/customer"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
)

// CheckoutIntegrationTestSuite runs the command handlers against PostgreSQL,
// including concurrent checkouts competing for the same rows.
type CheckoutIntegrationTestSuite struct {
	suite.Suite
	database  *pgtest.Database
	factory   ports.UnitOfWorkFactory
	create    commands.CreateOrderCommandHandler
	payment   commands.UpdatePaymentStatusCommandHandler
	duplicate commands.DuplicateOrderCommandHandler
}

func TestCheckoutIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(CheckoutIntegrationTestSuite))
}

func (suite *CheckoutIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *CheckoutIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Reset(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.database.DB, nil, logger)

	resolver, err := services.NewItemResolver(services.DefaultMaxItemQuantity, services.DefaultMaxItems)
	suite.Require().NoError(err)
	pricing, err := services.NewPricingEngine(services.DefaultTaxRate)
	suite.Require().NoError(err)

	suite.create = commands.NewCreateOrderCommandHandler(commands.NewCheckoutUoWFactory(suite.factory), commands.Checkout{
		Resolver:  resolver,
		Pricing:   pricing,
		Discounts: services.NewNoDiscount(logger),
		Shipping:  services.PassthroughShipping{},
		Currency:  "USD",
	}, logger)
	orderUoWs := commands.NewOrderUoWFactory(suite.factory)
	suite.payment = commands.NewUpdatePaymentStatusCommandHandler(orderUoWs)
	suite.duplicate = commands.NewDuplicateOrderCommandHandler(orderUoWs, &suite.create)
}

func (suite *CheckoutIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *CheckoutIntegrationTestSuite) seedProduct(price string, stock int) *catalog.Product {
	p, err := catalog.NewProduct(catalog.ProductParams{
		ID:            kernel.NewUUID(),
		Name:          "Wool Scarf",
		SKU:           "SCARF-" + kernel.NewUUID().String()[:8],
		Price:         kernel.MustMoney(price),
		StockQuantity: stock,
		Section:       kernel.SectionApparel,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().ProductRepository().Add(context.Background(), p))
	return p
}

func (suite *CheckoutIntegrationTestSuite) command(email string, productID kernel.UUID, quantity int) commands.CreateOrderCommand {
	cmd, err := commands.NewCreateOrderCommand(commands.CreateOrderInput{
		Email:        email,
		Items:        []services.RequestedItem{{ProductID: productID, Quantity: quantity}},
		ShippingCost: decimal.NewFromInt(50),
	})
	suite.Require().NoError(err)
	return cmd
}

func (suite *CheckoutIntegrationTestSuite) stock(id kernel.UUID) int {
	p, err := suite.factory.Create().ProductRepository().Get(context.Background(), id)
	suite.Require().NoError(err)
	return p.StockQuantity()
}

// checkoutConcurrently runs n checkouts at once and returns the orders created
// and the errors of the failed ones.
func (suite *CheckoutIntegrationTestSuite) checkoutConcurrently(n int, cmd func(i int) commands.CreateOrderCommand) ([]*order.Order, []error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		created []*order.Order
		failed  []error
	)
	start := make(chan struct{})
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			o, err := suite.create.Handle(context.Background(), cmd(i))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return
			}
			created = append(created, o)
		}()
	}
	close(start)
	wg.Wait()
	return created, failed
}

func (suite *CheckoutIntegrationTestSuite) TestCreateOrder_PricesFromCatalog() {
	p := suite.seedProduct("100", 10)

	created, err := suite.create.Handle(context.Background(), suite.command("guest@example.com", p.ID(), 2))
	suite.Require().NoError(err)

	suite.Equal(order.FirstNumber, created.Number())
	suite.Equal("200.00", created.Pricing().Subtotal.String())
	suite.Equal("36.00", created.Pricing().Tax.String())
	suite.Equal("286.00", created.Pricing().Total.String())
	suite.True(created.IsGuest())
	suite.Equal(8, suite.stock(p.ID()))
}

func (suite *CheckoutIntegrationTestSuite) TestCreateOrder_FailureLeavesNoTrace() {
	ctx := context.Background()
	p := suite.seedProduct("100", 1)

	_, err := suite.create.Handle(ctx, suite.command("guest@example.com", p.ID(), 2))
	var insufficient *errs.InsufficientStockError
	suite.Require().ErrorAs(err, &insufficient)
	suite.Equal(1, insufficient.Available)

	var orders int64
	suite.Require().NoError(suite.database.DB.Table("orders").Count(&orders).Error)
	suite.Zero(orders)
	suite.Equal(1, suite.stock(p.ID()))
}

func (suite *CheckoutIntegrationTestSuite) TestConcurrentCheckouts_NeverOversell() {
	defer goleak.VerifyNone(suite.T(), goleak.IgnoreCurrent())
	p := suite.seedProduct("10", 5)

	created, failed := suite.checkoutConcurrently(12, func(int) commands.CreateOrderCommand {
		return suite.command("guest@example.com", p.ID(), 1)
	})

	suite.Len(created, 5)
	suite.Len(failed, 7)
	for _, err := range failed {
		var insufficient *errs.InsufficientStockError
		suite.ErrorAs(err, &insufficient)
	}
	suite.Zero(suite.stock(p.ID()))
}

func (suite *CheckoutIntegrationTestSuite) TestConcurrentCheckouts_UniqueIncreasingNumbers() {
	defer goleak.VerifyNone(suite.T(), goleak.IgnoreCurrent())
	p := suite.seedProduct("10", 100)

	created, failed := suite.checkoutConcurrently(10, func(int) commands.CreateOrderCommand {
		return suite.command("guest@example.com", p.ID(), 1)
	})
	suite.Require().Empty(failed)

	numbers := make([]int64, 0, len(created))
	seen := make(map[order.Number]struct{}, len(created))
	for _, o := range created {
		seen[o.Number()] = struct{}{}
		numbers = append(numbers, o.Number().Int64())
	}
	suite.Len(seen, 10)

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	suite.GreaterOrEqual(numbers[0], order.FirstNumber.Int64())

	next, err := suite.factory.Create().OrderRepository().NextNumber(context.Background())
	suite.Require().NoError(err)
	suite.Greater(next.Int64(), numbers[len(numbers)-1])
}

func (suite *CheckoutIntegrationTestSuite) TestConcurrentCheckouts_SerializeCustomerStats() {
	defer goleak.VerifyNone(suite.T(), goleak.IgnoreCurrent())
	ctx := context.Background()
	p := suite.seedProduct("100", 50)
	c, err := customer.NewCustomer(kernel.NewUUID(), "ada@example.com", "Ada", "")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().CustomerRepository().Add(ctx, c))

	created, failed := suite.checkoutConcurrently(6, func(int) commands.CreateOrderCommand {
		return suite.command("ADA@example.com", p.ID(), 1)
	})
	suite.Require().Empty(failed)
	suite.Require().Len(created, 6)
	for _, o := range created {
		suite.Require().NotNil(o.CustomerID())
		suite.Equal(c.ID(), *o.CustomerID())
	}

	stored, err := suite.factory.Create().CustomerRepository().FindByEmail(ctx, "ada@example.com")
	suite.Require().NoError(err)
	suite.Equal(6, stored.Stats().OrderCount)
	// 100 + 18 tax + 50 shipping per order
	suite.Equal("1008.00", stored.Stats().TotalSpent.String())
	suite.Equal("168.00", stored.Stats().AverageOrderValue.String())
}

func (suite *CheckoutIntegrationTestSuite) TestConcurrentPaymentUpdates_OneWins() {
	defer goleak.VerifyNone(suite.T(), goleak.IgnoreCurrent())
	ctx := context.Background()
	p := suite.seedProduct("10", 5)
	created, err := suite.create.Handle(ctx, suite.command("guest@example.com", p.ID(), 1))
	suite.Require().NoError(err)

	targets := []order.PaymentStatus{order.PaymentPaid, order.PaymentFailed}
	results := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, cmdErr := commands.NewUpdatePaymentStatusCommand(created.ID(), target)
			if cmdErr != nil {
				results[i] = cmdErr
				return
			}
			_, results[i] = suite.payment.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	var transition *errs.StatusTransitionIsInvalidError
	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorAs(err, &transition)
	}
	suite.Equal(1, succeeded)
}

func (suite *CheckoutIntegrationTestSuite) TestRefundedOrderCannotBePaidAgain() {
	ctx := context.Background()
	p := suite.seedProduct("10", 5)
	created, err := suite.create.Handle(ctx, suite.command("guest@example.com", p.ID(), 1))
	suite.Require().NoError(err)

	for _, status := range []order.PaymentStatus{order.PaymentPaid, order.PaymentRefunded} {
		cmd, cmdErr := commands.NewUpdatePaymentStatusCommand(created.ID(), status)
		suite.Require().NoError(cmdErr)
		_, err = suite.payment.Handle(ctx, cmd)
		suite.Require().NoError(err)
	}

	cmd, err := commands.NewUpdatePaymentStatusCommand(created.ID(), order.PaymentPaid)
	suite.Require().NoError(err)
	_, err = suite.payment.Handle(ctx, cmd)

	var transition *errs.StatusTransitionIsInvalidError
	suite.Require().ErrorAs(err, &transition)
	suite.Equal("REFUNDED", transition.From)

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, created.ID(), ports.ExcludeDeleted)
	suite.Require().NoError(err)
	suite.Equal(order.PaymentRefunded, stored.PaymentStatus())
}

func (suite *CheckoutIntegrationTestSuite) TestDuplicate_UsesCurrentCatalogPrice() {
	ctx := context.Background()
	p := suite.seedProduct("100", 10)
	source, err := suite.create.Handle(ctx, suite.command("guest@example.com", p.ID(), 2))
	suite.Require().NoError(err)

	repriced, err := catalog.RestoreProduct(catalog.ProductParams{
		ID:            p.ID(),
		Name:          p.Name(),
		SKU:           p.SKU(),
		Price:         kernel.MustMoney("150"),
		StockQuantity: suite.stock(p.ID()),
		Section:       p.Section(),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().ProductRepository().Update(ctx, repriced))

	cmd, err := commands.NewDuplicateOrderCommand(source.ID(), "admin")
	suite.Require().NoError(err)
	duplicate, err := suite.duplicate.Handle(ctx, cmd)
	suite.Require().NoError(err)

	suite.NotEqual(source.ID(), duplicate.ID())
	suite.Greater(duplicate.Number().Int64(), source.Number().Int64())
	suite.Equal("300.00", duplicate.Pricing().Subtotal.String())
	suite.Equal("404.00", duplicate.Pricing().Total.String())
	suite.Equal("286.00", source.Pricing().Total.String())
	suite.Equal(order.PaymentPending, duplicate.PaymentStatus())
	suite.Equal(6, suite.stock(p.ID()))
}

func (suite *CheckoutIntegrationTestSuite) TestDuplicate_SoftDeletedSourceIsNotFound() {
	ctx := context.Background()
	p := suite.seedProduct("100", 10)
	source, err := suite.create.Handle(ctx, suite.command("guest@example.com", p.ID(), 1))
	suite.Require().NoError(err)

	del, err := commands.NewDeleteOrderCommand(source.ID(), false)
	suite.Require().NoError(err)
	deleteHandler := commands.NewDeleteOrderCommandHandler(commands.NewOrderUoWFactory(suite.factory))
	suite.Require().NoError(deleteHandler.Handle(ctx, del))

	cmd, err := commands.NewDuplicateOrderCommand(source.ID(), "admin")
	suite.Require().NoError(err)
	_, err = suite.duplicate.Handle(ctx, cmd)

	var notFound *errs.ObjectNotFoundError
	suite.True(errors.As(err, &notFound))
}

func (suite *CheckoutIntegrationTestSuite) TestPurge_RemovesExpiredSoftDeletes() {
	ctx := context.Background()
	p := suite.seedProduct("10", 10)
	created, err := suite.create.Handle(ctx, suite.command("guest@example.com", p.ID(), 1))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.database.DB.Exec(
		"UPDATE orders SET deleted_at = ? WHERE id = ?", time.Now().Add(-60*24*time.Hour), created.ID().Bytes()).Error)

	cmd, err := commands.NewPurgeDeletedOrdersCommand(30*24*time.Hour, 100)
	suite.Require().NoError(err)
	purge := commands.NewPurgeDeletedOrdersCommandHandler(commands.NewOrderUoWFactory(suite.factory))
	removed, err := purge.Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(1, removed)

	_, err = suite.factory.Create().OrderRepository().Get(ctx, created.ID(), ports.IncludeDeleted)
	var notFound *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFound)
}
