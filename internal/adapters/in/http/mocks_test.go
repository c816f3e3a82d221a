package http_test

import (
	"context"
	"io"
	"sync"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/idempotency"

	"github.com/stretchr/testify/mock"
)

type MockCreator struct{ mock.Mock }

func (m *MockCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	return orderOrNil(args.Get(0)), args.Error(1)
}

type MockUpdater struct{ mock.Mock }

func (m *MockUpdater) Handle(ctx context.Context, cmd commands.UpdateOrderCommand) (commands.UpdateOrderResult, error) {
	args := m.Called(ctx, cmd)
	result, _ := args.Get(0).(commands.UpdateOrderResult)
	return result, args.Error(1)
}

type MockPaymentStatusUpdater struct{ mock.Mock }

func (m *MockPaymentStatusUpdater) Handle(ctx context.Context, cmd commands.UpdatePaymentStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	return orderOrNil(args.Get(0)), args.Error(1)
}

type MockFulfillmentStatusUpdater struct{ mock.Mock }

func (m *MockFulfillmentStatusUpdater) Handle(
	ctx context.Context,
	cmd commands.UpdateFulfillmentStatusCommand,
) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	return orderOrNil(args.Get(0)), args.Error(1)
}

type MockDeleter struct{ mock.Mock }

func (m *MockDeleter) Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockDuplicator struct{ mock.Mock }

func (m *MockDuplicator) Handle(ctx context.Context, cmd commands.DuplicateOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	return orderOrNil(args.Get(0)), args.Error(1)
}

type MockGetter struct{ mock.Mock }

func (m *MockGetter) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type MockLister struct{ mock.Mock }

func (m *MockLister) Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ListOrdersQueryResponse), args.Error(1)
}

type MockStatsReader struct{ mock.Mock }

func (m *MockStatsReader) Handle(ctx context.Context, query queries.OrderStatsQuery) (queries.OrderStatsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderStatsQueryResponse), args.Error(1)
}

type MockExporter struct{ mock.Mock }

func (m *MockExporter) Handle(ctx context.Context, query queries.ExportOrdersQuery, w io.Writer) (int, error) {
	args := m.Called(ctx, query, w)
	if csv, ok := args.Get(0).(string); ok {
		_, _ = io.WriteString(w, csv)
	}
	return args.Int(1), args.Error(2)
}

func orderOrNil(v any) *order.Order {
	if v == nil {
		return nil
	}
	return v.(*order.Order)
}

// memoryStore is an in-process idempotency.Store.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]idempotency.Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]idempotency.Record{}}
}

func (s *memoryStore) Reserve(_ context.Context, key, fingerprint string) (*idempotency.Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.records[key]; ok {
		return &existing, false, nil
	}
	s.records[key] = idempotency.Record{Fingerprint: fingerprint}
	return nil, true, nil
}

func (s *memoryStore) Complete(_ context.Context, key string, record idempotency.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Completed = true
	s.records[key] = record
	return nil
}

func (s *memoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}
