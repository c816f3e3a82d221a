package queries

import (
	"errors"

	"storefront/internal/pkg/guard"
)

var ErrOrderStatsQueryIsNotConstructed = errors.New(
	"OrderStatsQuery must be created via NewOrderStatsQuery constructor",
)

// OrderStatsQuery summarises live orders matching a filter.
type OrderStatsQuery struct { //nolint:recvcheck //using for validation
	filter OrderFilter

	guard guard.ConstructorGuard
}

// NewOrderStatsQuery validates the filter.
func NewOrderStatsQuery(filter OrderFilter) (OrderStatsQuery, error) {
	if err := filter.Validate(); err != nil {
		return OrderStatsQuery{}, err
	}
	return OrderStatsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q OrderStatsQuery) Validate() error {
	return q.guard.Validate(ErrOrderStatsQueryIsNotConstructed)
}

func (q OrderStatsQuery) Filter() OrderFilter { return q.filter }
