package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Params are the inputs of a new order. Items and Pricing must already be
// resolved from the catalog; client-supplied prices never reach this point.
type Params struct {
	ID              kernel.UUID
	Number          Number
	CustomerID      *kernel.UUID
	GuestToken      string
	Contact         Contact
	Items           []Item
	ShippingAddress *ShippingAddress
	Pricing         Pricing
	Currency        string
	DiscountCode    string
	Tags            []string
	Notes           string
	PaymentMethod   string
	CreatedBy       string
}

// RestoreParams rebuilds an order from persistence.
type RestoreParams struct {
	Params
	Section           kernel.Section
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time
}

// Order is the aggregate root of a checkout. It exclusively owns its items and
// shipping address.
//
// Order follows these invariants:
//   - at least one item; every unit price was resolved server-side
//   - pricing.Subtotal equals the sum of line totals, and the breakdown identity holds
//   - linked to a customer, or carries a guest token
//   - status changes follow the PaymentStatus and FulfillmentStatus tables
type Order struct {
	id                kernel.UUID
	number            Number
	customerID        *kernel.UUID
	guestToken        string
	contact           Contact
	section           kernel.Section
	items             []Item
	shippingAddress   *ShippingAddress
	pricing           Pricing
	currency          string
	discountCode      string
	tags              []string
	notes             string
	paymentMethod     string
	paymentStatus     PaymentStatus
	fulfillmentStatus FulfillmentStatus
	createdBy         string
	createdAt         time.Time
	updatedAt         time.Time
	deletedAt         *time.Time

	events        []Event
	isConstructed bool
}

// NewOrder creates an order in PENDING/UNFULFILLED state and records EventCreated.
func NewOrder(params Params, now time.Time) (*Order, error) {
	now = now.UTC()
	o, err := build(RestoreParams{
		Params:            params,
		Section:           SectionOf(params.Items),
		PaymentStatus:     PaymentPending,
		FulfillmentStatus: FulfillmentUnfulfilled,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return nil, err
	}

	o.record(Event{Type: EventCreated, OccurredAt: now})
	return o, nil
}

// RestoreOrder rebuilds a persisted order without recording events.
func RestoreOrder(params RestoreParams) (*Order, error) {
	return build(params)
}

func build(p RestoreParams) (*Order, error) {
	o := &Order{
		id:                p.ID,
		number:            p.Number,
		guestToken:        strings.TrimSpace(p.GuestToken),
		contact:           p.Contact,
		section:           p.Section,
		items:             append([]Item(nil), p.Items...),
		pricing:           p.Pricing,
		currency:          strings.ToUpper(strings.TrimSpace(p.Currency)),
		discountCode:      strings.TrimSpace(p.DiscountCode),
		tags:              NormalizeTags(p.Tags),
		notes:             strings.TrimSpace(p.Notes),
		paymentMethod:     strings.TrimSpace(p.PaymentMethod),
		paymentStatus:     p.PaymentStatus,
		fulfillmentStatus: p.FulfillmentStatus,
		createdBy:         strings.TrimSpace(p.CreatedBy),
		createdAt:         p.CreatedAt.UTC(),
		updatedAt:         p.UpdatedAt.UTC(),
		isConstructed:     true,
	}
	if p.CustomerID != nil {
		id := *p.CustomerID
		o.customerID = &id
	}
	if p.ShippingAddress != nil {
		addr := *p.ShippingAddress
		o.shippingAddress = &addr
	}
	if p.DeletedAt != nil {
		at := p.DeletedAt.UTC()
		o.deletedAt = &at
	}

	if err := errors.Join(
		o.id.Validate(),
		o.number.Validate(),
		o.validateLinkage(),
		o.validateItems(),
		o.validatePricing(),
		o.validateCurrency(),
		o.section.Validate(),
		o.paymentStatus.Validate(),
		o.fulfillmentStatus.Validate(),
	); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) validateLinkage() error {
	if o.customerID != nil {
		return o.customerID.Validate()
	}
	if o.guestToken == "" {
		return errs.NewValueIsRequiredErrorWithCause("guest token", errors.New("orders without a customer need a guest token"))
	}
	if o.contact.Email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	return nil
}

func (o *Order) validateItems() error {
	if len(o.items) == 0 {
		return errs.NewValueIsOutOfRangeError("items", 0, 1, "unbounded")
	}
	for _, item := range o.items {
		if err := item.productID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("items", err)
		}
	}
	return nil
}

func (o *Order) validatePricing() error {
	if len(o.items) == 0 {
		return nil
	}
	if subtotal := SubtotalOf(o.items); !subtotal.Equal(o.pricing.Subtotal) {
		return errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("subtotal %s does not match items %s", o.pricing.Subtotal, subtotal))
	}
	return o.pricing.Validate()
}

func (o *Order) validateCurrency() error {
	if !currencyPattern.MatchString(o.currency) {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", o.currency))
	}
	return nil
}

// SectionOf returns the section shared by all items, or SectionMixed.
func SectionOf(items []Item) kernel.Section {
	if len(items) == 0 {
		return ""
	}
	section := items[0].Section()
	for _, item := range items[1:] {
		if item.Section() != section {
			return kernel.SectionMixed
		}
	}
	return section
}

// NormalizeTags trims, drops empty and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Validate reports ErrOrderIsNotConstructed for a nil order or one not built
// by NewOrder or RestoreOrder. Repositories call it before every write.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares identity only. Two snapshots of one order are equal even
// when their statuses differ.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Number returns the customer-facing order number.
func (o *Order) Number() Number {
	return o.number
}

// GuestToken returns the token a guest uses to look the order up. Customer
// orders may leave it empty.
func (o *Order) GuestToken() string {
	return o.guestToken
}

// Contact returns who placed the order.
func (o *Order) Contact() Contact {
	return o.contact
}

// Section returns the catalog section of the items, or kernel.SectionMixed.
func (o *Order) Section() kernel.Section {
	return o.section
}

// Pricing returns the computed amounts.
func (o *Order) Pricing() Pricing {
	return o.pricing
}

// Currency returns the ISO 4217 code of every amount.
func (o *Order) Currency() string {
	return o.currency
}

// DiscountCode returns the code the customer entered, applied or not.
func (o *Order) DiscountCode() string {
	return o.discountCode
}

// Notes returns the free-form notes.
func (o *Order) Notes() string {
	return o.notes
}

// PaymentMethod returns the intended payment method.
func (o *Order) PaymentMethod() string {
	return o.paymentMethod
}

// PaymentStatus returns the current payment status.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// FulfillmentStatus returns the current fulfillment status.
func (o *Order) FulfillmentStatus() FulfillmentStatus {
	return o.fulfillmentStatus
}

// CreatedBy returns the actor that created the order.
func (o *Order) CreatedBy() string {
	return o.createdBy
}

// CreatedAt returns when the order was placed.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the time of the last change.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsGuest reports whether no customer is linked.
func (o *Order) IsGuest() bool {
	return o.customerID == nil
}

// IsDeleted reports whether the order was soft-deleted.
func (o *Order) IsDeleted() bool {
	return o.deletedAt != nil
}

// Items returns a copy of the line items in submitted order.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Tags returns a copy of the normalized tags.
func (o *Order) Tags() []string {
	return append([]string(nil), o.tags...)
}

// CustomerID returns a copy of the linked customer id, or nil for a guest
// order.
func (o *Order) CustomerID() *kernel.UUID {
	if o.customerID == nil {
		return nil
	}
	id := *o.customerID
	return &id
}

// ShippingAddress returns a copy of the address, or nil when none was given.
func (o *Order) ShippingAddress() *ShippingAddress {
	if o.shippingAddress == nil {
		return nil
	}
	addr := *o.shippingAddress
	return &addr
}

// DeletedAt returns when the order was soft-deleted, or nil.
func (o *Order) DeletedAt() *time.Time {
	if o.deletedAt == nil {
		return nil
	}
	at := *o.deletedAt
	return &at
}

// ItemCount is the number of units across all lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.items {
		count += item.quantity
	}
	return count
}

// ChangePaymentStatus applies the payment table to the current status.
// On rejection the order is left unchanged.
func (o *Order) ChangePaymentStatus(target PaymentStatus, now time.Time) error {
	from := o.paymentStatus
	next, err := from.TransitionTo(target)
	if err != nil {
		return err
	}
	o.paymentStatus = next
	o.touch(now)
	o.record(Event{Type: EventPaymentStatusChanged, From: from.String(), To: next.String(), OccurredAt: o.updatedAt})
	return nil
}

// ChangeFulfillmentStatus applies the fulfillment table to the current status.
func (o *Order) ChangeFulfillmentStatus(target FulfillmentStatus, now time.Time) error {
	from := o.fulfillmentStatus
	next, err := from.TransitionTo(target)
	if err != nil {
		return err
	}
	o.fulfillmentStatus = next
	o.touch(now)
	o.record(Event{Type: EventFulfillmentStatusChanged, From: from.String(), To: next.String(), OccurredAt: o.updatedAt})
	return nil
}

// SetNotes replaces the free-form notes. Surrounding whitespace is trimmed.
func (o *Order) SetNotes(notes string, now time.Time) {
	o.notes = strings.TrimSpace(notes)
	o.touch(now)
}

// SetTags replaces the tags after NormalizeTags. An empty slice clears them.
//
// Example:
//
//	o.SetTags([]string{" gift ", "gift", "priority"}, now)
//	o.Tags() // [gift priority]
func (o *Order) SetTags(tags []string, now time.Time) {
	o.tags = NormalizeTags(tags)
	o.touch(now)
}

// SetPaymentMethod records how the customer intends to pay. It does not touch
// the payment status.
func (o *Order) SetPaymentMethod(method string, now time.Time) {
	o.paymentMethod = strings.TrimSpace(method)
	o.touch(now)
}

// CheckDeletable enforces the deletion policy: PAID orders must be refunded
// first and FULFILLED orders cannot be deleted.
func (o *Order) CheckDeletable() error {
	if o.paymentStatus == PaymentPaid {
		return errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s is %s and must be refunded before deletion", o.number, o.paymentStatus))
	}
	if o.fulfillmentStatus == FulfillmentFulfilled {
		return errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s is %s and cannot be deleted", o.number, o.fulfillmentStatus))
	}
	return nil
}

// Delete applies the deletion policy. A soft delete stamps the deletion time;
// a hard delete only records the event and leaves removal to the repository.
func (o *Order) Delete(hard bool, now time.Time) error {
	if err := o.CheckDeletable(); err != nil {
		return err
	}
	now = now.UTC()
	if !hard {
		if o.deletedAt != nil {
			return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %s is already deleted", o.number))
		}
		o.deletedAt = &now
		o.updatedAt = now
	}
	o.record(Event{Type: EventDeleted, Hard: hard, OccurredAt: now})
	return nil
}

// Events returns the events recorded since construction or the last ClearEvents.
func (o *Order) Events() []Event {
	return append([]Event(nil), o.events...)
}

// ClearEvents drops the recorded events once they have been published.
func (o *Order) ClearEvents() {
	o.events = nil
}

func (o *Order) touch(now time.Time) {
	o.updatedAt = now.UTC()
}

func (o *Order) record(e Event) {
	e.OrderID = o.id
	e.Number = o.number
	e.CustomerID = o.CustomerID()
	e.Total = o.pricing.Total
	o.events = append(o.events, e)
}
