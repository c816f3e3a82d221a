package order

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// PaymentStatus tracks money collection for an order.
//
//	PENDING ──> PAID ──> REFUNDED (terminal)
//	   │  ^
//	   v  │
//	  FAILED
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
)

type paymentTransition struct {
	from PaymentStatus
	to   PaymentStatus
}

var paymentTransitions = map[paymentTransition]struct{}{
	{PaymentPending, PaymentPaid}:   {},
	{PaymentPending, PaymentFailed}: {},
	{PaymentPaid, PaymentRefunded}:  {},
	{PaymentFailed, PaymentPending}: {},
}

// PaymentStatuses lists every valid payment status.
func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}
}

// ParsePaymentStatus is case-insensitive and ignores surrounding whitespace.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for _, status := range PaymentStatuses() {
		if status.String() == needle {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a payment status", s))
}

func (s PaymentStatus) String() string {
	switch s {
	case PaymentPending:
		return "PENDING"
	case PaymentPaid:
		return "PAID"
	case PaymentFailed:
		return "FAILED"
	case PaymentRefunded:
		return "REFUNDED"
	case PaymentUnknown:
		return "UNKNOWN"
	}
	return "UNKNOWN"
}

// Validate rejects PaymentUnknown and out-of-range values.
func (s PaymentStatus) Validate() error {
	if s < PaymentPending || s > PaymentRefunded {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// CanTransitionTo reports whether target is reachable in one step. Staying on
// the same status is not a transition.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	_, ok := paymentTransitions[paymentTransition{from: s, to: target}]
	return ok
}

// TransitionTo returns target if the table allows s -> target.
func (s PaymentStatus) TransitionTo(target PaymentStatus) (PaymentStatus, error) {
	if !s.CanTransitionTo(target) {
		return s, errs.NewStatusTransitionIsInvalidError("payment", s.String(), target.String())
	}
	return target, nil
}
