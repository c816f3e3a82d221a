package order

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
)

// EventType is carried in the event-type message header.
type EventType string

const (
	EventCreated                  EventType = "order.created"
	EventPaymentStatusChanged     EventType = "order.payment_status_changed"
	EventFulfillmentStatusChanged EventType = "order.fulfillment_status_changed"
	EventDeleted                  EventType = "order.deleted"
)

// Event is recorded by the aggregate and published once the surrounding
// transaction commits. From/To are set for status changes only.
type Event struct {
	Type       EventType
	OrderID    kernel.UUID
	Number     Number
	CustomerID *kernel.UUID
	Total      kernel.Money
	From       string
	To         string
	Hard       bool
	OccurredAt time.Time
}
