package queries

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
)

// OrderFilter narrows listings, exports and statistics. Soft-deleted orders
// are always excluded. Nil fields do not filter.
type OrderFilter struct {
	// Search matches the order number, customer name or email, case-insensitively.
	Search            string
	Section           *kernel.Section
	PaymentStatus     *order.PaymentStatus
	FulfillmentStatus *order.FulfillmentStatus
	CustomerID        *kernel.UUID
	DateFrom          *time.Time
	DateTo            *time.Time
}

// Validate rejects unknown sections and statuses, an invalid customer id and a
// DateFrom after DateTo.
func (f OrderFilter) Validate() error {
	var sectionErr, paymentErr, fulfillmentErr, customerErr, rangeErr error
	if f.Section != nil {
		sectionErr = f.Section.Validate()
	}
	if f.PaymentStatus != nil {
		paymentErr = f.PaymentStatus.Validate()
	}
	if f.FulfillmentStatus != nil {
		fulfillmentErr = f.FulfillmentStatus.Validate()
	}
	if f.CustomerID != nil {
		customerErr = f.CustomerID.Validate()
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		rangeErr = errs.NewValueIsInvalidErrorWithCause("dateFrom",
			fmt.Errorf("%s is after dateTo %s", f.DateFrom.Format(time.RFC3339), f.DateTo.Format(time.RFC3339)))
	}
	return errors.Join(sectionErr, paymentErr, fulfillmentErr, customerErr, rangeErr)
}

// where renders the filter as a condition on the orders table aliased o.
func (f OrderFilter) where() (string, []any) {
	conditions := []string{"o.deleted_at IS NULL"}
	var args []any

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.TrimPrefix(search, "#")) + "%"
		conditions = append(conditions,
			"(CAST(o.number AS TEXT) ILIKE ? OR o.customer_name ILIKE ? OR o.email ILIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if f.Section != nil {
		conditions = append(conditions, "o.section = ?")
		args = append(args, f.Section.String())
	}
	if f.PaymentStatus != nil {
		conditions = append(conditions, "o.payment_status = ?")
		args = append(args, f.PaymentStatus.String())
	}
	if f.FulfillmentStatus != nil {
		conditions = append(conditions, "o.fulfillment_status = ?")
		args = append(args, f.FulfillmentStatus.String())
	}
	if f.CustomerID != nil {
		conditions = append(conditions, "o.customer_id = ?")
		args = append(args, f.CustomerID.Bytes())
	}
	if f.DateFrom != nil {
		conditions = append(conditions, "o.created_at >= ?")
		args = append(args, f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		conditions = append(conditions, "o.created_at <= ?")
		args = append(args, f.DateTo.UTC())
	}

	return strings.Join(conditions, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
