package order

import (
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// Pricing is the monetary breakdown of an order.
type Pricing struct {
	Subtotal     kernel.Money
	Discount     kernel.Money
	Tax          kernel.Money
	ShippingCost kernel.Money
	Total        kernel.Money
}

// Validate checks the breakdown identity total = subtotal - discount + tax + shipping.
func (p Pricing) Validate() error {
	if p.Discount.GreaterThan(p.Subtotal) {
		return errs.NewValueIsOutOfRangeError("discount", p.Discount.String(), "0", p.Subtotal.String())
	}
	expected := kernel.Round2(p.Subtotal.Decimal().
		Sub(p.Discount.Decimal()).
		Add(p.Tax.Decimal()).
		Add(p.ShippingCost.Decimal()))
	if !expected.Equal(p.Total.Decimal()) {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("total %s does not match breakdown %s", p.Total, expected.StringFixed(2)))
	}
	return nil
}

// SubtotalOf sums the line totals of items.
func SubtotalOf(items []Item) kernel.Money {
	subtotal := kernel.ZeroMoney()
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}
