package queries

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderSummary is one row of an order listing.
type OrderSummary struct {
	ID                string    `json:"id"`
	Number            string    `json:"orderNumber"`
	CustomerName      string    `json:"customerName,omitempty"`
	Email             string    `json:"email"`
	Section           string    `json:"section"`
	PaymentStatus     string    `json:"paymentStatus"`
	FulfillmentStatus string    `json:"fulfillmentStatus"`
	ItemCount         int       `json:"itemCount"`
	Total             string    `json:"total"`
	Currency          string    `json:"currency"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ListOrdersQueryResponse is one page of orders. Total counts every matching
// order, not just this page.
type ListOrdersQueryResponse struct {
	Orders     []OrderSummary `json:"orders"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// summaryRow is what the summary SELECT returns.
type summaryRow struct {
	ID                uuid.UUID
	Number            int64
	CustomerName      string
	Email             string
	Section           string
	PaymentStatus     string
	FulfillmentStatus string
	ItemCount         int
	Total             decimal.Decimal
	Currency          string
	CreatedAt         time.Time
}

const summarySelect = `
	SELECT
		o.id,
		o.number,
		o.customer_name,
		o.email,
		o.section,
		o.payment_status,
		o.fulfillment_status,
		COALESCE((SELECT SUM(i.quantity) FROM order_items i WHERE i.order_id = o.id), 0) AS item_count,
		o.total,
		o.currency,
		o.created_at
	FROM orders o
	WHERE `

func (r summaryRow) toSummary() OrderSummary {
	return OrderSummary{
		ID:                r.ID.String(),
		Number:            order.Number(r.Number).String(),
		CustomerName:      r.CustomerName,
		Email:             r.Email,
		Section:           r.Section,
		PaymentStatus:     r.PaymentStatus,
		FulfillmentStatus: r.FulfillmentStatus,
		ItemCount:         r.ItemCount,
		Total:             r.Total.StringFixed(2),
		Currency:          r.Currency,
		CreatedAt:         r.CreatedAt.UTC(),
	}
}

// ListOrdersQueryHandler pages through the read model with raw SQL.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(db)
//	query, _ := NewListOrdersQuery(ListOrdersParams{Page: 2, Limit: 50})
//	page, err := handler.Handle(ctx, query)
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a listing handler on db.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns one page of live orders and the number of matching orders.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}
	params := query.Params()
	where, args := params.OrderFilter.where()

	var total int64
	if err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM orders o WHERE "+where, args...).
		Scan(&total).Error; err != nil {
		return ListOrdersQueryResponse{}, err
	}

	var rows []summaryRow
	pageArgs := append(append([]any(nil), args...), params.Limit, query.offset())
	if err := h.db.WithContext(ctx).
		Raw(summarySelect+where+" ORDER BY "+query.orderBy()+" LIMIT ? OFFSET ?", pageArgs...).
		Scan(&rows).Error; err != nil {
		return ListOrdersQueryResponse{}, err
	}

	orders := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toSummary())
	}

	return ListOrdersQueryResponse{
		Orders:     orders,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: int((total + int64(params.Limit) - 1) / int64(params.Limit)),
	}, nil
}
