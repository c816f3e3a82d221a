package queries

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxPage keeps the row offset within a 32-bit range for any limit.
	MaxPage = math.MaxInt32 / MaxLimit
)

// SortField names a sortable listing column.
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByTotal     SortField = "total"
	SortByNumber    SortField = "orderNumber"
)

var sortColumns = map[SortField]string{
	SortByCreatedAt: "o.created_at",
	SortByTotal:     "o.total",
	SortByNumber:    "o.number",
}

// SortOrder is asc or desc. Input is matched case-insensitively.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOrdersParams are the raw listing parameters. Zero values select the
// defaults: first page, DefaultLimit rows, newest first.
type ListOrdersParams struct {
	OrderFilter
	Page      int
	Limit     int
	SortBy    SortField
	SortOrder SortOrder
}

// ListOrdersQuery pages through live orders.
//
// Example:
//
//	paid := order.PaymentPaid
//	query, err := NewListOrdersQuery(ListOrdersParams{
//	    OrderFilter: OrderFilter{PaymentStatus: &paid},
//	    SortBy:      SortByTotal,
//	})
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	params ListOrdersParams

	guard guard.ConstructorGuard
}

// NewListOrdersQuery fills in defaults and validates paging, sorting and the
// filter. Every problem is reported at once.
func NewListOrdersQuery(params ListOrdersParams) (ListOrdersQuery, error) {
	if params.Page == 0 {
		params.Page = DefaultPage
	}
	if params.Limit == 0 {
		params.Limit = DefaultLimit
	}
	if params.SortBy == "" {
		params.SortBy = SortByCreatedAt
	}
	params.SortOrder = SortOrder(strings.ToLower(string(params.SortOrder)))
	if params.SortOrder == "" {
		params.SortOrder = SortDesc
	}

	var pageErr, limitErr, sortErr, orderErr error
	if params.Page < 1 || params.Page > MaxPage {
		pageErr = errs.NewValueIsOutOfRangeError("page", params.Page, 1, MaxPage)
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", params.Limit, 1, MaxLimit)
	}
	if _, ok := sortColumns[params.SortBy]; !ok {
		sortErr = errs.NewValueIsInvalidErrorWithCause("sortBy", fmt.Errorf("%q is not sortable", params.SortBy))
	}
	if params.SortOrder != SortAsc && params.SortOrder != SortDesc {
		orderErr = errs.NewValueIsInvalidErrorWithCause("sortOrder", fmt.Errorf("%q is not asc or desc", params.SortOrder))
	}
	if err := errors.Join(pageErr, limitErr, sortErr, orderErr, params.OrderFilter.Validate()); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{params: params, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Params returns the parameters with defaults applied.
func (q ListOrdersQuery) Params() ListOrdersParams { return q.params }

// orderBy ends with the id so pages are stable under equal sort keys.
func (q ListOrdersQuery) orderBy() string {
	return sortColumns[q.params.SortBy] + " " + strings.ToUpper(string(q.params.SortOrder)) + ", o.id"
}

func (q ListOrdersQuery) offset() int {
	return (q.params.Page - 1) * q.params.Limit
}
