package services

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// PricingEngine computes order totals. It is pure and safe for concurrent use.
//
// Tax is charged on the taxable base (subtotal minus discount), never on shipping:
//
//	tax   = round2((subtotal - discount) * taxRate)
//	total = round2(subtotal - discount + tax + shippingCost)
type PricingEngine struct {
	taxRate decimal.Decimal
}

// NewPricingEngine accepts a tax rate between 0 and 1 inclusive.
func NewPricingEngine(taxRate decimal.Decimal) (PricingEngine, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return PricingEngine{}, errs.NewValueIsOutOfRangeError("tax rate", taxRate.String(), "0", "1")
	}
	return PricingEngine{taxRate: taxRate}, nil
}

// TaxRate is the fraction applied to the discounted subtotal, e.g. 0.18.
func (e PricingEngine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Compute prices items with the given discount and shipping cost. It fails with a
// validation error when an input is negative or the discount exceeds the subtotal.
func (e PricingEngine) Compute(items []order.Item, discount, shippingCost decimal.Decimal) (order.Pricing, error) {
	discountMoney, discountErr := kernel.NewMoney(discount)
	shippingMoney, shippingErr := kernel.NewMoney(shippingCost)
	if err := errors.Join(discountErr, shippingErr); err != nil {
		return order.Pricing{}, err
	}

	subtotal := order.SubtotalOf(items)
	if discountMoney.GreaterThan(subtotal) {
		return order.Pricing{}, errs.NewValueIsOutOfRangeError("discount", discountMoney.String(), "0", subtotal.String())
	}

	base := subtotal.Decimal().Sub(discountMoney.Decimal())
	tax := kernel.Round2(base.Mul(e.taxRate))
	total := kernel.Round2(base.Add(tax).Add(shippingMoney.Decimal()))

	taxMoney, err := kernel.NewMoney(tax)
	if err != nil {
		return order.Pricing{}, err
	}
	totalMoney, err := kernel.NewMoney(total)
	if err != nil {
		return order.Pricing{}, err
	}

	return order.Pricing{
		Subtotal:     subtotal,
		Discount:     discountMoney,
		Tax:          taxMoney,
		ShippingCost: shippingMoney,
		Total:        totalMoney,
	}, nil
}
