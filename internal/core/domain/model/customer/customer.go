package customer

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer or RestoreCustomer")

// Stats are the aggregate figures maintained as a side effect of order creation.
type Stats struct {
	OrderCount        int
	TotalSpent        kernel.Money
	AverageOrderValue kernel.Money
	LastOrderAt       *time.Time
}

// RecordOrder returns the statistics after one more order of the given total.
func (s Stats) RecordOrder(total kernel.Money, at time.Time) Stats {
	count := s.OrderCount + 1
	spent := s.TotalSpent.Add(total)
	at = at.UTC()
	return Stats{
		OrderCount:        count,
		TotalSpent:        spent,
		AverageOrderValue: spent.Average(count),
		LastOrderAt:       &at,
	}
}

// Customer is a registered buyer. Orders link to it by id and update its Stats
// in the same transaction that persists the order.
type Customer struct {
	id            kernel.UUID
	email         string
	name          string
	phone         string
	stats         Stats
	isConstructed bool
}

// NewCustomer registers a customer with empty statistics.
func NewCustomer(id kernel.UUID, email, name, phone string) (*Customer, error) {
	return RestoreCustomer(id, email, name, phone, Stats{TotalSpent: kernel.ZeroMoney(), AverageOrderValue: kernel.ZeroMoney()})
}

// RestoreCustomer rebuilds a customer read from persistence.
func RestoreCustomer(id kernel.UUID, email, name, phone string, stats Stats) (*Customer, error) {
	normalized, emailErr := NormalizeEmail(email)
	var countErr error
	if stats.OrderCount < 0 {
		countErr = errs.NewValueIsOutOfRangeError("order count", stats.OrderCount, 0, "unbounded")
	}
	if err := errors.Join(id.Validate(), emailErr, countErr); err != nil {
		return nil, err
	}

	return &Customer{
		id:            id,
		email:         normalized,
		name:          strings.TrimSpace(name),
		phone:         strings.TrimSpace(phone),
		stats:         stats,
		isConstructed: true,
	}, nil
}

// NormalizeEmail lower-cases and validates an address; customers are matched on the result.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", errs.NewValueIsRequiredError("email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	return email, nil
}

// Validate reports ErrCustomerIsNotConstructed for a nil or zero customer.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// Email returns the normalized email.
func (c *Customer) Email() string {
	return c.email
}

// Name returns the display name.
func (c *Customer) Name() string {
	return c.name
}

// Phone returns the phone number as entered.
func (c *Customer) Phone() string {
	return c.phone
}

// Stats returns the order statistics.
func (c *Customer) Stats() Stats {
	return c.stats
}

// RecordOrder applies a newly created order to the customer's statistics.
func (c *Customer) RecordOrder(total kernel.Money, at time.Time) {
	c.stats = c.stats.RecordOrder(total, at)
}
