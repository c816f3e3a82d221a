package commands_test

import (
	"testing"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedOrder(t *testing.T, payment order.PaymentStatus, fulfillment order.FulfillmentStatus) *order.Order {
	t.Helper()
	contact, err := order.NewContact("guest@example.com", "Guest", "")
	require.NoError(t, err)
	item, err := order.NewItem(order.ItemParams{
		ProductID: kernel.NewUUID(),
		Name:      "Ceramic Vase",
		SKU:       "VASE-1",
		Quantity:  2,
		UnitPrice: kernel.MustMoney("100"),
		Section:   kernel.SectionHome,
	})
	require.NoError(t, err)
	address, err := order.NewShippingAddress(order.ShippingAddress{
		Line1: "1 Main St", City: "Oslo", PostalCode: "0150", Country: "NO",
	})
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreParams{
		Params: order.Params{
			ID:              kernel.NewUUID(),
			Number:          order.FirstNumber,
			GuestToken:      "token",
			Contact:         contact,
			Items:           []order.Item{item},
			ShippingAddress: &address,
			Pricing: order.Pricing{
				Subtotal:     kernel.MustMoney("200"),
				Discount:     kernel.ZeroMoney(),
				Tax:          kernel.MustMoney("36"),
				ShippingCost: kernel.MustMoney("50"),
				Total:        kernel.MustMoney("286"),
			},
			Currency:      "USD",
			Tags:          []string{"vip"},
			Notes:         "ring twice",
			PaymentMethod: "card",
		},
		Section:           kernel.SectionHome,
		PaymentStatus:     payment,
		FulfillmentStatus: fulfillment,
		CreatedAt:         fixedNow.Add(-time.Hour),
		UpdatedAt:         fixedNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return o
}

type orderFixture struct {
	factory *MockOrderUoWFactory
	uow     *MockOrderUoW
	repo    *MockOrderRepository
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		factory: new(MockOrderUoWFactory),
		uow:     new(MockOrderUoW),
		repo:    new(MockOrderRepository),
	}
	f.factory.On("Create").Return(f.uow).Maybe()
	f.uow.On("OrderRepository").Return(f.repo).Maybe()
	return f
}

func TestUpdatePaymentStatusCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	o := storedOrder(t, order.PaymentPending, order.FulfillmentUnfulfilled)

	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once(),
		f.repo.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewUpdatePaymentStatusCommand(o.ID(), order.PaymentPaid)
	require.NoError(t, err)
	h := commands.NewUpdatePaymentStatusCommandHandler(f.factory)

	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.PaymentPaid, updated.PaymentStatus())
	f.uow.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestUpdatePaymentStatusCommandHandler_Handle_RefundedIsTerminal(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	o := storedOrder(t, order.PaymentRefunded, order.FulfillmentUnfulfilled)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewUpdatePaymentStatusCommand(o.ID(), order.PaymentPaid)
	require.NoError(t, err)
	h := commands.NewUpdatePaymentStatusCommandHandler(f.factory)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrStatusTransitionIsInvalid)

	var transitionErr *errs.StatusTransitionIsInvalidError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "REFUNDED", transitionErr.From)
	assert.Equal(t, "PAID", transitionErr.To)
	assert.Equal(t, order.PaymentRefunded, o.PaymentStatus())

	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.uow.AssertExpectations(t)
}

func TestUpdatePaymentStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	id := kernel.NewUUID()

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.repo.On("GetForUpdate", ctx, id, ports.ExcludeDeleted).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewUpdatePaymentStatusCommand(id, order.PaymentPaid)
	require.NoError(t, err)
	h := commands.NewUpdatePaymentStatusCommandHandler(f.factory)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestUpdateFulfillmentStatusCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.PaymentPaid, order.FulfillmentScheduled)

	t.Run("allowed", func(t *testing.T) {
		f := newOrderFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
		f.repo.On("Update", ctx, o).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewUpdateFulfillmentStatusCommand(o.ID(), order.FulfillmentPartial)
		require.NoError(t, err)
		h := commands.NewUpdateFulfillmentStatusCommandHandler(f.factory)

		updated, err := h.Handle(ctx, cmd)
		require.NoError(t, err)
		assert.Equal(t, order.FulfillmentPartial, updated.FulfillmentStatus())
		f.repo.AssertExpectations(t)
	})

	t.Run("rejected", func(t *testing.T) {
		f := newOrderFixture()
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewUpdateFulfillmentStatusCommand(o.ID(), order.FulfillmentScheduled)
		require.NoError(t, err)
		h := commands.NewUpdateFulfillmentStatusCommandHandler(f.factory)

		_, err = h.Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrStatusTransitionIsInvalid)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUpdateOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	o := storedOrder(t, order.PaymentPending, order.FulfillmentUnfulfilled)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
	f.repo.On("Update", ctx, o).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	notes := "leave at reception"
	tags := []string{"priority"}
	pending := order.PaymentPending
	scheduled := order.FulfillmentScheduled
	cmd, err := commands.NewUpdateOrderCommand(o.ID(), commands.UpdateOrderInput{
		Notes:             &notes,
		Tags:              &tags,
		PaymentStatus:     &pending,
		FulfillmentStatus: &scheduled,
	})
	require.NoError(t, err)
	h := commands.NewUpdateOrderCommandHandler(f.factory)

	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, result.PaymentChanged, "same payment status is not a transition")
	assert.True(t, result.FulfillmentChanged)

	updated := result.Order
	assert.Equal(t, "leave at reception", updated.Notes())
	assert.Equal(t, []string{"priority"}, updated.Tags())
	assert.Equal(t, "card", updated.PaymentMethod())
	assert.Equal(t, order.PaymentPending, updated.PaymentStatus())
	assert.Equal(t, order.FulfillmentScheduled, updated.FulfillmentStatus())
	assert.Equal(t, "286.00", updated.Pricing().Total.String())
	f.repo.AssertExpectations(t)
}

func TestUpdateOrderCommandHandler_Handle_RejectedTransitionKeepsFields(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	o := storedOrder(t, order.PaymentRefunded, order.FulfillmentUnfulfilled)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	notes := "changed"
	paid := order.PaymentPaid
	cmd, err := commands.NewUpdateOrderCommand(o.ID(), commands.UpdateOrderInput{Notes: &notes, PaymentStatus: &paid})
	require.NoError(t, err)
	h := commands.NewUpdateOrderCommandHandler(f.factory)

	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrStatusTransitionIsInvalid)
	assert.Equal(t, "ring twice", o.Notes())
	f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("soft delete by default", func(t *testing.T) {
		f := newOrderFixture()
		o := storedOrder(t, order.PaymentFailed, order.FulfillmentUnfulfilled)
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
		f.repo.On("Update", ctx, o).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewDeleteOrderCommand(o.ID(), false)
		require.NoError(t, err)
		h := commands.NewDeleteOrderCommandHandler(f.factory)

		require.NoError(t, h.Handle(ctx, cmd))
		assert.True(t, o.IsDeleted())
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.repo.AssertExpectations(t)
	})

	t.Run("hard delete reaches soft-deleted orders", func(t *testing.T) {
		f := newOrderFixture()
		o := storedOrder(t, order.PaymentRefunded, order.FulfillmentUnfulfilled)
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("GetForUpdate", ctx, o.ID(), ports.IncludeDeleted).Return(o, nil).Once()
		f.repo.On("Delete", ctx, o).Return(nil).Once()
		f.uow.On("Commit", ctx).Return(nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewDeleteOrderCommand(o.ID(), true)
		require.NoError(t, err)
		h := commands.NewDeleteOrderCommandHandler(f.factory)

		require.NoError(t, h.Handle(ctx, cmd))
		f.repo.AssertExpectations(t)
	})

	t.Run("paid order is rejected", func(t *testing.T) {
		f := newOrderFixture()
		o := storedOrder(t, order.PaymentPaid, order.FulfillmentUnfulfilled)
		f.uow.On("Begin", ctx).Return(nil).Once()
		f.repo.On("GetForUpdate", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
		f.uow.On("Rollback", ctx).Return(nil).Once()

		cmd, err := commands.NewDeleteOrderCommand(o.ID(), false)
		require.NoError(t, err)
		h := commands.NewDeleteOrderCommandHandler(f.factory)

		require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrValueIsInvalid)
		assert.False(t, o.IsDeleted())
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestPurgeDeletedOrdersCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	f := newOrderFixture()
	first := storedOrder(t, order.PaymentPending, order.FulfillmentUnfulfilled)
	second := storedOrder(t, order.PaymentFailed, order.FulfillmentUnfulfilled)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.repo.On("ListDeletedBefore", ctx, mock.AnythingOfType("time.Time"), 50).
		Return([]*order.Order{first, second}, nil).Once()
	f.repo.On("Delete", ctx, first).Return(nil).Once()
	f.repo.On("Delete", ctx, second).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	cmd, err := commands.NewPurgeDeletedOrdersCommand(720*time.Hour, 50)
	require.NoError(t, err)
	h := commands.NewPurgeDeletedOrdersCommandHandler(f.factory)

	purged, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	assert.True(t, first.Events()[0].Hard)
	f.repo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}
