package queries_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/postgres/pgtest"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
)

var day = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type seededOrder struct {
	number   order.Number
	email    string
	name     string
	section  kernel.Section
	price    string
	quantity int
	paid     bool
	customer *kernel.UUID
	at       time.Time
}

type OrderQueriesIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	repo     *orderrepo.GormOrderRepository
	customer kernel.UUID
	orders   map[order.Number]*order.Order
}

func TestOrderQueriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(OrderQueriesIntegrationTestSuite))
}

func (suite *OrderQueriesIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *OrderQueriesIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

// SetupTest seeds five orders; #1005 is soft-deleted.
func (suite *OrderQueriesIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	suite.Require().NoError(suite.database.Reset(ctx))
	suite.repo = orderrepo.NewGormOrderRepository(suite.database.DB, noopTracker{})
	suite.customer = kernel.NewUUID()
	suite.orders = make(map[order.Number]*order.Order)

	for _, s := range []seededOrder{
		{number: 1001, email: "ada@example.com", name: "Ada Lovelace", section: kernel.SectionHome, price: "100", quantity: 2, paid: true, customer: &suite.customer, at: day},
		{number: 1002, email: "grace@example.com", name: "Grace Hopper", section: kernel.SectionApparel, price: "25", quantity: 1, at: day.Add(24 * time.Hour)},
		{number: 1003, email: "ada@example.com", name: "Ada Lovelace", section: kernel.SectionApparel, price: "10", quantity: 5, paid: true, customer: &suite.customer, at: day.Add(48 * time.Hour)},
		{number: 1004, email: "linus@example.com", name: "Linus_T", section: kernel.SectionHome, price: "300", quantity: 1, at: day.Add(72 * time.Hour)},
		{number: 1005, email: "gone@example.com", name: "Gone", section: kernel.SectionHome, price: "1", quantity: 1, at: day.Add(96 * time.Hour)},
	} {
		suite.orders[s.number] = suite.seed(s)
	}

	gone := suite.orders[1005]
	suite.Require().NoError(gone.Delete(false, day.Add(100*time.Hour)))
	suite.Require().NoError(suite.repo.Update(ctx, gone))
}

func (suite *OrderQueriesIntegrationTestSuite) seed(s seededOrder) *order.Order {
	item, err := order.NewItem(order.ItemParams{
		ProductID: kernel.NewUUID(),
		Name:      "Item",
		SKU:       "SKU",
		Quantity:  s.quantity,
		UnitPrice: kernel.MustMoney(s.price),
		Section:   s.section,
	})
	suite.Require().NoError(err)
	contact, err := order.NewContact(s.email, s.name, "")
	suite.Require().NoError(err)

	subtotal := item.LineTotal()
	params := order.Params{
		ID:         kernel.NewUUID(),
		Number:     s.number,
		CustomerID: s.customer,
		Contact:    contact,
		Items:      []order.Item{item},
		Pricing: order.Pricing{
			Subtotal:     subtotal,
			Discount:     kernel.ZeroMoney(),
			Tax:          kernel.ZeroMoney(),
			ShippingCost: kernel.ZeroMoney(),
			Total:        subtotal,
		},
		Currency: "USD",
	}
	if s.customer == nil {
		params.GuestToken = "guest"
	}

	o, err := order.NewOrder(params, s.at)
	suite.Require().NoError(err)
	if s.paid {
		suite.Require().NoError(o.ChangePaymentStatus(order.PaymentPaid, s.at))
	}
	suite.Require().NoError(suite.repo.Add(context.Background(), o))
	return o
}

func (suite *OrderQueriesIntegrationTestSuite) list(params queries.ListOrdersParams) queries.ListOrdersQueryResponse {
	query, err := queries.NewListOrdersQuery(params)
	suite.Require().NoError(err)
	response, err := queries.NewListOrdersQueryHandler(suite.database.DB).Handle(context.Background(), query)
	suite.Require().NoError(err)
	return response
}

func numbers(response queries.ListOrdersQueryResponse) []string {
	result := make([]string, 0, len(response.Orders))
	for _, o := range response.Orders {
		result = append(result, o.Number)
	}
	return result
}

func (suite *OrderQueriesIntegrationTestSuite) TestList_DefaultsToNewestFirstAndHidesDeleted() {
	response := suite.list(queries.ListOrdersParams{})

	suite.Equal(int64(4), response.Total)
	suite.Equal(1, response.TotalPages)
	suite.Equal([]string{"#1004", "#1003", "#1002", "#1001"}, numbers(response))

	first := response.Orders[3]
	suite.Equal("Ada Lovelace", first.CustomerName)
	suite.Equal("PAID", first.PaymentStatus)
	suite.Equal("UNFULFILLED", first.FulfillmentStatus)
	suite.Equal(2, first.ItemCount)
	suite.Equal("200.00", first.Total)
	suite.True(day.Equal(first.CreatedAt))
}

func (suite *OrderQueriesIntegrationTestSuite) TestList_Pagination() {
	response := suite.list(queries.ListOrdersParams{Page: 2, Limit: 3, SortBy: queries.SortByNumber, SortOrder: queries.SortAsc})

	suite.Equal(int64(4), response.Total)
	suite.Equal(2, response.TotalPages)
	suite.Equal([]string{"#1004"}, numbers(response))
}

func (suite *OrderQueriesIntegrationTestSuite) TestList_SortByTotal() {
	response := suite.list(queries.ListOrdersParams{SortBy: queries.SortByTotal, SortOrder: queries.SortAsc})

	suite.Equal([]string{"#1002", "#1003", "#1001", "#1004"}, numbers(response))
}

func (suite *OrderQueriesIntegrationTestSuite) TestList_Search() {
	tests := map[string][]string{
		"#1002":       {"#1002"},
		"GRACE":       {"#1002"},
		"ada@example": {"#1003", "#1001"},
		"linus_":      {"#1004"},
		"_":           {"#1004"},
		"nobody":      {},
	}
	for search, expected := range tests {
		suite.Run(search, func() {
			response := suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{Search: search}})
			suite.Equal(expected, numbers(response))
		})
	}
}

func (suite *OrderQueriesIntegrationTestSuite) TestList_Filters() {
	apparel := kernel.SectionApparel
	paid := order.PaymentPaid
	unfulfilled := order.FulfillmentUnfulfilled
	from := day.Add(12 * time.Hour)
	to := day.Add(60 * time.Hour)

	suite.Equal([]string{"#1003", "#1002"},
		numbers(suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{Section: &apparel}})))
	suite.Equal([]string{"#1003", "#1001"},
		numbers(suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{PaymentStatus: &paid}})))
	suite.Len(suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{FulfillmentStatus: &unfulfilled}}).Orders, 4)
	suite.Equal([]string{"#1003", "#1001"},
		numbers(suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{CustomerID: &suite.customer}})))
	suite.Equal([]string{"#1003", "#1002"},
		numbers(suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{DateFrom: &from, DateTo: &to}})))
	suite.Equal([]string{"#1003"},
		numbers(suite.list(queries.ListOrdersParams{OrderFilter: queries.OrderFilter{Section: &apparel, PaymentStatus: &paid}})))
}

func (suite *OrderQueriesIntegrationTestSuite) TestStats() {
	query, err := queries.NewOrderStatsQuery(queries.OrderFilter{})
	suite.Require().NoError(err)

	stats, err := queries.NewOrderStatsQueryHandler(suite.database.DB).Handle(context.Background(), query)
	suite.Require().NoError(err)

	suite.Equal(int64(4), stats.TotalOrders)
	suite.Equal("250.00", stats.TotalRevenue)
	suite.Equal("125.00", stats.AverageOrderValue)
	suite.Equal([]queries.StatsBucket{
		{Key: "PAID", Count: 2, Revenue: "250.00"},
		{Key: "PENDING", Count: 2, Revenue: "325.00"},
	}, stats.ByPaymentStatus)
	suite.Equal([]queries.StatsBucket{
		{Key: "UNFULFILLED", Count: 4, Revenue: "575.00"},
	}, stats.ByFulfillmentStatus)
	suite.Equal([]queries.StatsBucket{
		{Key: "apparel", Count: 2, Revenue: "75.00"},
		{Key: "home", Count: 2, Revenue: "500.00"},
	}, stats.BySection)
}

func (suite *OrderQueriesIntegrationTestSuite) TestStats_Filtered() {
	home := kernel.SectionHome
	query, err := queries.NewOrderStatsQuery(queries.OrderFilter{Section: &home})
	suite.Require().NoError(err)

	stats, err := queries.NewOrderStatsQueryHandler(suite.database.DB).Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(int64(2), stats.TotalOrders)
	suite.Equal("200.00", stats.TotalRevenue)
	suite.Len(stats.BySection, 1)
}

func (suite *OrderQueriesIntegrationTestSuite) TestExportCSV() {
	query, err := queries.NewExportOrdersQuery(queries.OrderFilter{})
	suite.Require().NoError(err)

	var buf bytes.Buffer
	written, err := queries.NewExportOrdersQueryHandler(suite.database.DB).Handle(context.Background(), query, &buf)
	suite.Require().NoError(err)
	suite.Equal(4, written)

	records, err := csv.NewReader(&buf).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 5)
	suite.Equal(queries.ExportColumns, records[0])
	suite.Equal([]string{
		"#1001", "Ada Lovelace", "ada@example.com", "2026-03-10T12:00:00Z", "home",
		"PAID", "UNFULFILLED", "2", "200.00",
	}, records[4])
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_ByNumberThroughRepository() {
	query, err := queries.NewGetOrderByNumberQuery(1003)
	suite.Require().NoError(err)

	view, err := queries.NewGetOrderQueryHandler(suite.repo).Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Equal(suite.orders[1003].ID().String(), view.ID)
	suite.Equal(5, view.ItemCount)
}
