package queries

import (
	"errors"

	"storefront/internal/pkg/guard"
)

var ErrExportOrdersQueryIsNotConstructed = errors.New(
	"ExportOrdersQuery must be created via NewExportOrdersQuery constructor",
)

// ExportColumns is the header row of the CSV export.
var ExportColumns = []string{
	"Order Number", "Customer Name", "Customer Email", "Date", "Section",
	"Payment Status", "Fulfillment Status", "Item Count", "Total",
}

// ExportOrdersQuery writes every live order matching the filter as CSV,
// newest first.
type ExportOrdersQuery struct { //nolint:recvcheck //using for validation
	filter OrderFilter

	guard guard.ConstructorGuard
}

// NewExportOrdersQuery validates the filter.
//
// Example:
//
//	section := kernel.SectionApparel
//	query, err := NewExportOrdersQuery(OrderFilter{Section: &section})
//	rows, err := handler.Handle(ctx, query, w)
func NewExportOrdersQuery(filter OrderFilter) (ExportOrdersQuery, error) {
	if err := filter.Validate(); err != nil {
		return ExportOrdersQuery{}, err
	}
	return ExportOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ExportOrdersQuery) Validate() error {
	return q.guard.Validate(ErrExportOrdersQueryIsNotConstructed)
}

func (q ExportOrdersQuery) Filter() OrderFilter { return q.filter }
