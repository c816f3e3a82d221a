package kernel

import (
	"fmt"

	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative amount held at two decimal places.
type Money struct {
	amount decimal.Decimal
}

// Round2 rounds half-up to two decimal places. decimal.Round rounds half away
// from zero, which equals half-up for the non-negative amounts handled here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NewMoney rounds amount to two places and rejects negatives.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), "0", "unbounded")
	}
	return Money{amount: Round2(amount)}, nil
}

// ParseMoney parses a decimal string such as "19.90" and rounds it to cents.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%q is not a number: %w", s, err))
	}
	return NewMoney(d)
}

// MustMoney panics on invalid input; intended for constants and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Decimal exposes the amount for persistence and arithmetic outside kernel.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add returns m plus other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Times multiplies by a non-negative quantity.
func (m Money) Times(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Average splits the amount into n equal shares, rounded half-up to cents.
// A non-positive n yields zero.
func (m Money) Average(n int) Money {
	if n <= 0 {
		return ZeroMoney()
	}
	return Money{amount: Round2(m.amount.Div(decimal.NewFromInt(int64(n))))}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}
