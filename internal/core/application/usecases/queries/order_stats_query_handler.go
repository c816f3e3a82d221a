package queries

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsBucket counts the orders sharing one status or section. Revenue sums
// their totals.
type StatsBucket struct {
	Key     string `json:"key"`
	Count   int64  `json:"count"`
	Revenue string `json:"revenue"`
}

// OrderStatsQueryResponse is the stats summary. TotalRevenue only counts PAID
// orders; bucket revenue counts every order in the bucket.
type OrderStatsQueryResponse struct {
	TotalOrders         int64         `json:"totalOrders"`
	TotalRevenue        string        `json:"totalRevenue"`
	AverageOrderValue   string        `json:"averageOrderValue"`
	ByPaymentStatus     []StatsBucket `json:"byPaymentStatus"`
	ByFulfillmentStatus []StatsBucket `json:"byFulfillmentStatus"`
	BySection           []StatsBucket `json:"bySection"`
}

type totalsRow struct {
	Count    int64
	Revenue  decimal.Decimal
	PaidOnly int64
}

type bucketRow struct {
	Key     string
	Count   int64
	Revenue decimal.Decimal
}

// groupColumns are the only columns statistics are grouped by.
var groupColumns = [...]string{"payment_status", "fulfillment_status", "section"}

// OrderStatsQueryHandler aggregates in the database: one totals query and one
// grouped query per bucket column.
type OrderStatsQueryHandler struct {
	db *gorm.DB
}

// NewOrderStatsQueryHandler creates a statistics handler on db.
func NewOrderStatsQueryHandler(db *gorm.DB) OrderStatsQueryHandler {
	return OrderStatsQueryHandler{db: db}
}

// Handle returns the summary. With no PAID orders the average is zero.
//
// Example:
//
//	query, _ := NewOrderStatsQuery(OrderFilter{})
//	stats, err := handler.Handle(ctx, query)
//	fmt.Println(stats.TotalRevenue, stats.AverageOrderValue)
func (h OrderStatsQueryHandler) Handle(ctx context.Context, query OrderStatsQuery) (OrderStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderStatsQueryResponse{}, err
	}
	where, args := query.Filter().where()

	var totals totalsRow
	if err := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS count,
			COALESCE(SUM(o.total) FILTER (WHERE o.payment_status = 'PAID'), 0) AS revenue,
			COUNT(*) FILTER (WHERE o.payment_status = 'PAID') AS paid_only
		FROM orders o
		WHERE `+where, args...).Scan(&totals).Error; err != nil {
		return OrderStatsQueryResponse{}, err
	}

	response := OrderStatsQueryResponse{
		TotalOrders:       totals.Count,
		TotalRevenue:      totals.Revenue.StringFixed(2),
		AverageOrderValue: decimal.Zero.StringFixed(2),
	}
	if totals.PaidOnly > 0 {
		response.AverageOrderValue = totals.Revenue.Div(decimal.NewFromInt(totals.PaidOnly)).StringFixed(2)
	}

	buckets := make([][]StatsBucket, len(groupColumns))
	for i, column := range groupColumns {
		var rows []bucketRow
		if err := h.db.WithContext(ctx).Raw(`
			SELECT o.`+column+` AS key, COUNT(*) AS count, COALESCE(SUM(o.total), 0) AS revenue
			FROM orders o
			WHERE `+where+`
			GROUP BY o.`+column+`
			ORDER BY o.`+column, args...).Scan(&rows).Error; err != nil {
			return OrderStatsQueryResponse{}, err
		}

		buckets[i] = make([]StatsBucket, 0, len(rows))
		for _, row := range rows {
			buckets[i] = append(buckets[i], StatsBucket{
				Key:     row.Key,
				Count:   row.Count,
				Revenue: row.Revenue.StringFixed(2),
			})
		}
	}

	response.ByPaymentStatus = buckets[0]
	response.ByFulfillmentStatus = buckets[1]
	response.BySection = buckets[2]
	return response, nil
}
