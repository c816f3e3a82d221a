package queries

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// ExportOrdersQueryHandler renders orders as CSV straight from the read
// model, without loading aggregates.
type ExportOrdersQueryHandler struct {
	db *gorm.DB
}

// NewExportOrdersQueryHandler creates an export handler on db.
func NewExportOrdersQueryHandler(db *gorm.DB) ExportOrdersQueryHandler {
	return ExportOrdersQueryHandler{db: db}
}

// Handle streams the matching orders to w and returns the number of data rows
// written. Dates are RFC 3339 in UTC.
func (h ExportOrdersQueryHandler) Handle(ctx context.Context, query ExportOrdersQuery, w io.Writer) (int, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}
	where, args := query.Filter().where()

	db := h.db.WithContext(ctx)
	rows, err := db.Raw(summarySelect+where+" ORDER BY o.created_at DESC, o.id", args...).Rows()
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	out := csv.NewWriter(w)
	if err = out.Write(ExportColumns); err != nil {
		return 0, err
	}

	written := 0
	for rows.Next() {
		var row summaryRow
		if err = db.ScanRows(rows, &row); err != nil {
			return written, err
		}

		s := row.toSummary()
		if err = out.Write([]string{
			s.Number,
			s.CustomerName,
			s.Email,
			s.CreatedAt.Format(time.RFC3339),
			s.Section,
			s.PaymentStatus,
			s.FulfillmentStatus,
			strconv.Itoa(s.ItemCount),
			s.Total,
		}); err != nil {
			return written, err
		}
		written++
	}
	if err = rows.Err(); err != nil {
		return written, err
	}

	out.Flush()
	return written, out.Error()
}
