package order

import (
	"fmt"
	"strconv"
	"strings"

	"storefront/internal/pkg/errs"
)

// FirstNumber seeds the order number sequence when no orders exist.
const FirstNumber Number = 1001

// Number is the externally visible, strictly increasing order number.
type Number int64

// ParseNumber accepts "#1001" and "1001".
func ParseNumber(s string) (Number, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q: %w", s, err))
	}
	number := Number(n)
	if err = number.Validate(); err != nil {
		return 0, err
	}
	return number, nil
}

// Validate rejects zero and negative numbers.
func (n Number) Validate() error {
	if n <= 0 {
		return errs.NewValueIsOutOfRangeError("order number", int64(n), 1, "unbounded")
	}
	return nil
}

// Next returns the number that follows n.
func (n Number) Next() Number {
	return n + 1
}

func (n Number) Int64() int64 {
	return int64(n)
}

// String renders the number the way customers see it, e.g. "#1001".
func (n Number) String() string {
	return "#" + strconv.FormatInt(int64(n), 10)
}
