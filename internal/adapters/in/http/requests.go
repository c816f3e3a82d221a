package http

import (
	"net/url"
	"strings"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

type addressRequest struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type createOrderItemRequest struct {
	ProductID string           `json:"productId"`
	VariantID *string          `json:"variantId"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

type createOrderRequest struct {
	Email           string                   `json:"email"`
	Name            string                   `json:"name"`
	Phone           string                   `json:"phone"`
	Items           []createOrderItemRequest `json:"items"`
	ShippingAddress *addressRequest          `json:"shippingAddress"`
	ShippingCost    decimal.Decimal          `json:"shippingCost"`
	DiscountCode    string                   `json:"discountCode"`
	Tags            []string                 `json:"tags"`
	Notes           string                   `json:"notes"`
	PaymentMethod   string                   `json:"paymentMethod"`
}

func (r createOrderRequest) toInput(createdBy string) (commands.CreateOrderInput, error) {
	items := make([]services.RequestedItem, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := kernel.ParseUUID(item.ProductID)
		if err != nil {
			return commands.CreateOrderInput{}, err
		}

		line := services.RequestedItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.VariantID != nil && *item.VariantID != "" {
			variantID, parseErr := kernel.ParseUUID(*item.VariantID)
			if parseErr != nil {
				return commands.CreateOrderInput{}, parseErr
			}
			line.VariantID = &variantID
		}
		items = append(items, line)
	}

	var address *order.ShippingAddress
	if r.ShippingAddress != nil {
		address = &order.ShippingAddress{
			Name:       r.ShippingAddress.Name,
			Line1:      r.ShippingAddress.Line1,
			Line2:      r.ShippingAddress.Line2,
			City:       r.ShippingAddress.City,
			State:      r.ShippingAddress.State,
			PostalCode: r.ShippingAddress.PostalCode,
			Country:    r.ShippingAddress.Country,
			Phone:      r.ShippingAddress.Phone,
		}
	}

	return commands.CreateOrderInput{
		Email:           r.Email,
		Name:            r.Name,
		Phone:           r.Phone,
		Items:           items,
		ShippingAddress: address,
		ShippingCost:    r.ShippingCost,
		DiscountCode:    r.DiscountCode,
		Tags:            r.Tags,
		Notes:           r.Notes,
		PaymentMethod:   r.PaymentMethod,
		CreatedBy:       createdBy,
	}, nil
}

type updateOrderRequest struct {
	Notes             *string   `json:"notes"`
	Tags              *[]string `json:"tags"`
	PaymentMethod     *string   `json:"paymentMethod"`
	PaymentStatus     *string   `json:"paymentStatus"`
	FulfillmentStatus *string   `json:"fulfillmentStatus"`
}

func (r updateOrderRequest) toInput() (commands.UpdateOrderInput, error) {
	in := commands.UpdateOrderInput{
		Notes:         r.Notes,
		Tags:          r.Tags,
		PaymentMethod: r.PaymentMethod,
	}
	if r.PaymentStatus != nil {
		status, err := order.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			return commands.UpdateOrderInput{}, err
		}
		in.PaymentStatus = &status
	}
	if r.FulfillmentStatus != nil {
		status, err := order.ParseFulfillmentStatus(*r.FulfillmentStatus)
		if err != nil {
			return commands.UpdateOrderInput{}, err
		}
		in.FulfillmentStatus = &status
	}
	return in, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

// filterParams are the query parameters shared by listing, stats and export.
type filterParams struct {
	Search            *string
	Section           *string
	PaymentStatus     *string
	FulfillmentStatus *string
	CustomerID        *string
	DateFrom          *string
	DateTo            *string
}

type listParams struct {
	filterParams
	Page      *int
	Limit     *int
	SortBy    *string
	SortOrder *string
}

func bindFilterParams(values url.Values) (filterParams, error) {
	var p filterParams
	bindings := []struct {
		name string
		dest any
	}{
		{"search", &p.Search},
		{"section", &p.Section},
		{"paymentStatus", &p.PaymentStatus},
		{"fulfillmentStatus", &p.FulfillmentStatus},
		{"customerId", &p.CustomerID},
		{"dateFrom", &p.DateFrom},
		{"dateTo", &p.DateTo},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); err != nil {
			return filterParams{}, newBadRequestError("invalid query parameter "+b.name, err)
		}
	}
	return p, nil
}

func bindListParams(values url.Values) (listParams, error) {
	filter, err := bindFilterParams(values)
	if err != nil {
		return listParams{}, err
	}

	p := listParams{filterParams: filter}
	bindings := []struct {
		name string
		dest any
	}{
		{"page", &p.Page},
		{"limit", &p.Limit},
		{"sortBy", &p.SortBy},
		{"sortOrder", &p.SortOrder},
	}
	for _, b := range bindings {
		if bindErr := runtime.BindQueryParameter("form", true, false, b.name, values, b.dest); bindErr != nil {
			return listParams{}, newBadRequestError("invalid query parameter "+b.name, bindErr)
		}
	}
	return p, nil
}

const dateOnly = "2006-01-02"

// parseDate accepts RFC 3339 timestamps and plain dates. A plain dateTo covers
// the whole day.
func parseDate(name, value string, endOfDay bool) (*time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return nil, newBadRequestError("invalid query parameter "+name, err)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func (p filterParams) toFilter() (queries.OrderFilter, error) {
	var filter queries.OrderFilter
	if p.Search != nil {
		filter.Search = strings.TrimSpace(*p.Search)
	}
	if p.Section != nil {
		section, err := kernel.ParseSection(*p.Section)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.Section = &section
	}
	if p.PaymentStatus != nil {
		status, err := order.ParsePaymentStatus(*p.PaymentStatus)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.PaymentStatus = &status
	}
	if p.FulfillmentStatus != nil {
		status, err := order.ParseFulfillmentStatus(*p.FulfillmentStatus)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.FulfillmentStatus = &status
	}
	if p.CustomerID != nil {
		id, err := kernel.ParseUUID(*p.CustomerID)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.CustomerID = &id
	}
	if p.DateFrom != nil {
		from, err := parseDate("dateFrom", *p.DateFrom, false)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.DateFrom = from
	}
	if p.DateTo != nil {
		to, err := parseDate("dateTo", *p.DateTo, true)
		if err != nil {
			return queries.OrderFilter{}, err
		}
		filter.DateTo = to
	}
	return filter, nil
}

func (p listParams) toParams() (queries.ListOrdersParams, error) {
	filter, err := p.filterParams.toFilter()
	if err != nil {
		return queries.ListOrdersParams{}, err
	}

	params := queries.ListOrdersParams{OrderFilter: filter}
	if p.Page != nil {
		params.Page = *p.Page
	}
	if p.Limit != nil {
		params.Limit = *p.Limit
	}
	if p.SortBy != nil {
		params.SortBy = queries.SortField(*p.SortBy)
	}
	if p.SortOrder != nil {
		params.SortOrder = queries.SortOrder(*p.SortOrder)
	}
	return params, nil
}
