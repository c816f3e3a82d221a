package services

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ShippingPolicy decides the shipping cost charged for an order.
type ShippingPolicy interface {
	Cost(ctx context.Context, requested decimal.Decimal, address *order.ShippingAddress) (decimal.Decimal, error)
}

// PassthroughShipping charges the requested cost as long as it is not negative.
type PassthroughShipping struct{}

// Cost rejects a negative request and otherwise returns it unchanged.
func (PassthroughShipping) Cost(_ context.Context, requested decimal.Decimal, _ *order.ShippingAddress) (decimal.Decimal, error) {
	if requested.IsNegative() {
		return decimal.Zero, errs.NewValueIsOutOfRangeError("shipping cost", requested.String(), "0", "unbounded")
	}
	return requested, nil
}
