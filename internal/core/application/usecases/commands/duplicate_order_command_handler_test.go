package commands_test

import (
	"testing"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDuplicateOrderCommandHandler_Handle_RepricesFromCatalog(t *testing.T) {
	ctx := t.Context()
	source := storedOrder(t, order.PaymentPaid, order.FulfillmentFulfilled)
	sourceItem := source.Items()[0]

	repriced, err := catalog.NewProduct(catalog.ProductParams{
		ID:            sourceItem.ProductID(),
		Name:          "Ceramic Vase",
		SKU:           "VASE-1",
		Price:         kernel.MustMoney("150"),
		StockQuantity: 10,
		Section:       kernel.SectionHome,
	})
	require.NoError(t, err)

	reads := newOrderFixture()
	reads.repo.On("Get", ctx, source.ID(), ports.ExcludeDeleted).Return(source, nil).Once()

	checkout := newCheckoutFixture(t)
	checkout.uow.On("Begin", ctx).Return(nil).Once()
	checkout.products.On("Get", ctx, repriced.ID()).Return(repriced, nil).Once()
	checkout.customers.On("FindByEmail", ctx, "guest@example.com").
		Return(nil, errs.NewObjectNotFoundError("customer", "guest@example.com")).Once()
	checkout.orders.On("NextNumber", ctx).Return(order.Number(1010), nil).Once()
	checkout.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	checkout.products.On("DecrementStock", ctx, repriced.ID(), 2).Return(nil).Once()
	checkout.uow.On("Commit", ctx).Return(nil).Once()
	checkout.uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewDuplicateOrderCommand(source.ID(), "admin-1")
	require.NoError(t, err)
	h := commands.NewDuplicateOrderCommandHandler(reads.factory, &checkout.handler)

	dup, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, dup.ID().IsEqual(source.ID()))
	assert.Equal(t, order.Number(1010), dup.Number())
	assert.Equal(t, "150.00", dup.Items()[0].UnitPrice().String())
	assert.Equal(t, "300.00", dup.Pricing().Subtotal.String())
	assert.Equal(t, "54.00", dup.Pricing().Tax.String())
	assert.Equal(t, "404.00", dup.Pricing().Total.String())
	assert.Equal(t, order.PaymentPending, dup.PaymentStatus())
	assert.Equal(t, order.FulfillmentUnfulfilled, dup.FulfillmentStatus())
	assert.Equal(t, source.ShippingAddress(), dup.ShippingAddress())
	assert.Equal(t, source.Tags(), dup.Tags())
	assert.Equal(t, "admin-1", dup.CreatedBy())
	checkout.assertExpectations(t)
}

func TestDuplicateOrderCommandHandler_Handle_SourceMissing(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	reads := newOrderFixture()
	reads.repo.On("Get", ctx, id, ports.ExcludeDeleted).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()

	checkout := newCheckoutFixture(t)
	cmd, err := commands.NewDuplicateOrderCommand(id, "")
	require.NoError(t, err)
	h := commands.NewDuplicateOrderCommandHandler(reads.factory, &checkout.handler)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	checkout.factory.AssertNotCalled(t, "Create")
}
