package queries_test

import (
	"context"
	"math"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID, scope ports.ReadScope) (*order.Order, error) {
	args := m.Called(ctx, id, scope)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderReader) GetByNumber(ctx context.Context, number order.Number, scope ports.ReadScope) (*order.Order, error) {
	args := m.Called(ctx, number, scope)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func sampleOrder(t *testing.T) *order.Order {
	t.Helper()
	variant := kernel.NewUUID()
	item, err := order.NewItem(order.ItemParams{
		ProductID: kernel.NewUUID(),
		VariantID: &variant,
		Name:      "Face Serum",
		SKU:       "SERUM-30",
		Quantity:  3,
		UnitPrice: kernel.MustMoney("10"),
		Section:   kernel.SectionBeauty,
	})
	require.NoError(t, err)
	contact, err := order.NewContact("guest@example.com", "Guest", "")
	require.NoError(t, err)
	address, err := order.NewShippingAddress(order.ShippingAddress{
		Line1: "221B Baker Street", City: "London", PostalCode: "NW1", Country: "GB",
	})
	require.NoError(t, err)

	o, err := order.NewOrder(order.Params{
		ID:              kernel.NewUUID(),
		Number:          1042,
		GuestToken:      "token",
		Contact:         contact,
		Items:           []order.Item{item},
		ShippingAddress: &address,
		Pricing: order.Pricing{
			Subtotal:     kernel.MustMoney("30"),
			Discount:     kernel.ZeroMoney(),
			Tax:          kernel.MustMoney("5.40"),
			ShippingCost: kernel.MustMoney("5"),
			Total:        kernel.MustMoney("40.40"),
		},
		Currency: "GBP",
	}, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func TestNewOrderView(t *testing.T) {
	o := sampleOrder(t)

	view := queries.NewOrderView(o)

	assert.Equal(t, "#1042", view.Number)
	assert.Equal(t, "40.40", view.Total)
	assert.Equal(t, "5.40", view.Tax)
	assert.Equal(t, "PENDING", view.PaymentStatus)
	assert.Equal(t, "UNFULFILLED", view.FulfillmentStatus)
	assert.Equal(t, "beauty", view.Section)
	assert.Equal(t, 3, view.ItemCount)
	assert.Nil(t, view.CustomerID)
	assert.Equal(t, []string{}, view.Tags)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "30.00", view.Items[0].LineTotal)
	assert.NotNil(t, view.Items[0].VariantID)
	require.NotNil(t, view.ShippingAddress)
	assert.Equal(t, "London", view.ShippingAddress.City)
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := sampleOrder(t)

	t.Run("by id", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("Get", ctx, o.ID(), ports.ExcludeDeleted).Return(o, nil).Once()
		query, err := queries.NewGetOrderQuery(o.ID())
		require.NoError(t, err)

		view, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, o.ID().String(), view.ID)
		reader.AssertExpectations(t)
	})

	t.Run("by number", func(t *testing.T) {
		reader := new(MockOrderReader)
		reader.On("GetByNumber", ctx, order.Number(1042), ports.ExcludeDeleted).Return(o, nil).Once()
		query, err := queries.NewGetOrderByNumberQuery(1042)
		require.NoError(t, err)

		view, err := queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, "#1042", view.Number)
		reader.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		reader := new(MockOrderReader)
		id := kernel.NewUUID()
		reader.On("Get", ctx, id, ports.ExcludeDeleted).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
		query, err := queries.NewGetOrderQuery(id)
		require.NoError(t, err)

		_, err = queries.NewGetOrderQueryHandler(reader).Handle(ctx, query)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("not constructed", func(t *testing.T) {
		_, err := queries.NewGetOrderQueryHandler(new(MockOrderReader)).Handle(ctx, queries.GetOrderQuery{})
		assert.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
	})
}

func TestNewGetOrderByNumberQuery_RejectsNonPositive(t *testing.T) {
	_, err := queries.NewGetOrderByNumberQuery(0)
	assert.True(t, errs.IsValidation(err))
}

func TestNewListOrdersQuery_Defaults(t *testing.T) {
	query, err := queries.NewListOrdersQuery(queries.ListOrdersParams{})
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	params := query.Params()
	assert.Equal(t, queries.DefaultPage, params.Page)
	assert.Equal(t, queries.DefaultLimit, params.Limit)
	assert.Equal(t, queries.SortByCreatedAt, params.SortBy)
	assert.Equal(t, queries.SortDesc, params.SortOrder)
}

func TestNewListOrdersQuery_Invalid(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	unknownSection := kernel.Section("toys")
	unknownStatus := order.PaymentStatus(99)

	tests := map[string]queries.ListOrdersParams{
		"negative page":     {Page: -1},
		"page too large":    {Page: queries.MaxPage + 1},
		"overflowing page":  {Page: math.MaxInt, Limit: 20},
		"limit too large":   {Limit: queries.MaxLimit + 1},
		"negative limit":    {Limit: -5},
		"unknown sort":      {SortBy: "email"},
		"unknown direction": {SortOrder: "sideways"},
		"inverted range":    {OrderFilter: queries.OrderFilter{DateFrom: &from, DateTo: &to}},
		"unknown section":   {OrderFilter: queries.OrderFilter{Section: &unknownSection}},
		"unknown status":    {OrderFilter: queries.OrderFilter{PaymentStatus: &unknownStatus}},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := queries.NewListOrdersQuery(params)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err), err.Error())
		})
	}
}

func TestNewListOrdersQuery_AcceptsLastPage(t *testing.T) {
	query, err := queries.NewListOrdersQuery(queries.ListOrdersParams{Page: queries.MaxPage, Limit: queries.MaxLimit})
	require.NoError(t, err)
	assert.Equal(t, queries.MaxPage, query.Params().Page)
}

func TestNewListOrdersQuery_SortOrderIsCaseInsensitive(t *testing.T) {
	query, err := queries.NewListOrdersQuery(queries.ListOrdersParams{SortBy: queries.SortByTotal, SortOrder: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, queries.SortAsc, query.Params().SortOrder)
}

func TestQueries_NotConstructedViaConstructor(t *testing.T) {
	assert.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
	assert.ErrorIs(t, queries.OrderStatsQuery{}.Validate(), queries.ErrOrderStatsQueryIsNotConstructed)
	assert.ErrorIs(t, queries.ExportOrdersQuery{}.Validate(), queries.ErrExportOrdersQueryIsNotConstructed)
}
