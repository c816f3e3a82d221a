package order

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// FulfillmentStatus tracks shipment of an order's items.
type FulfillmentStatus int

const (
	FulfillmentUnknown FulfillmentStatus = iota
	FulfillmentUnfulfilled
	FulfillmentFulfilled
	FulfillmentPartial
	FulfillmentScheduled
)

type fulfillmentTransition struct {
	from FulfillmentStatus
	to   FulfillmentStatus
}

var fulfillmentTransitions = map[fulfillmentTransition]struct{}{
	{FulfillmentUnfulfilled, FulfillmentFulfilled}: {},
	{FulfillmentUnfulfilled, FulfillmentPartial}:   {},
	{FulfillmentUnfulfilled, FulfillmentScheduled}: {},
	{FulfillmentFulfilled, FulfillmentUnfulfilled}: {},
	{FulfillmentPartial, FulfillmentFulfilled}:     {},
	{FulfillmentPartial, FulfillmentUnfulfilled}:   {},
	{FulfillmentScheduled, FulfillmentFulfilled}:   {},
	{FulfillmentScheduled, FulfillmentUnfulfilled}: {},
	{FulfillmentScheduled, FulfillmentPartial}:     {},
}

// FulfillmentStatuses lists every valid fulfillment status.
func FulfillmentStatuses() []FulfillmentStatus {
	return []FulfillmentStatus{FulfillmentUnfulfilled, FulfillmentFulfilled, FulfillmentPartial, FulfillmentScheduled}
}

// ParseFulfillmentStatus is case-insensitive and ignores surrounding whitespace.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, status := range FulfillmentStatuses() {
		if status.String() == needle {
			return status, nil
		}
	}
	return FulfillmentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"fulfillment status", fmt.Errorf("%q is not a fulfillment status", s))
}

func (s FulfillmentStatus) String() string {
	switch s {
	case FulfillmentUnfulfilled:
		return "UNFULFILLED"
	case FulfillmentFulfilled:
		return "FULFILLED"
	case FulfillmentPartial:
		return "PARTIAL"
	case FulfillmentScheduled:
		return "SCHEDULED"
	case FulfillmentUnknown:
		return "UNKNOWN"
	}
	return "UNKNOWN"
}

// Validate rejects FulfillmentUnknown and out-of-range values.
func (s FulfillmentStatus) Validate() error {
	if s < FulfillmentUnfulfilled || s > FulfillmentScheduled {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// CanTransitionTo reports whether target is reachable in one step. Staying on
// the same status is not a transition.
func (s FulfillmentStatus) CanTransitionTo(target FulfillmentStatus) bool {
	_, ok := fulfillmentTransitions[fulfillmentTransition{from: s, to: target}]
	return ok
}

// TransitionTo returns target, or s with an errs.StatusTransitionIsInvalidError
// when the move is not allowed.
//
// Example:
//
//	next, err := order.FulfillmentUnfulfilled.TransitionTo(order.FulfillmentPartial)
func (s FulfillmentStatus) TransitionTo(target FulfillmentStatus) (FulfillmentStatus, error) {
	if !s.CanTransitionTo(target) {
		return s, errs.NewStatusTransitionIsInvalidError("fulfillment", s.String(), target.String())
	}
	return target, nil
}
