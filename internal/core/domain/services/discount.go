package services

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// DiscountResolver turns a discount code into an amount for a given subtotal.
type DiscountResolver interface {
	Resolve(ctx context.Context, code string, subtotal kernel.Money) (decimal.Decimal, error)
}

// NoDiscount never discounts. A supplied code is logged so callers can tell a
// code was ignored rather than rejected.
type NoDiscount struct {
	logger *slog.Logger
}

// NewNoDiscount is the default DiscountResolver until a discount store exists.
//
// Example:
//
//	resolver := services.NewNoDiscount(logger)
//	amount, _ := resolver.Resolve(ctx, "SPRING10", subtotal) // 0, code logged
func NewNoDiscount(logger *slog.Logger) NoDiscount {
	return NoDiscount{logger: logger.With("component", "discount")}
}

// Resolve always returns zero and never fails.
func (d NoDiscount) Resolve(ctx context.Context, code string, _ kernel.Money) (decimal.Decimal, error) {
	if code = strings.TrimSpace(code); code != "" {
		d.logger.WarnContext(ctx, "discount codes are not supported, applying no discount", "code", code)
	}
	return decimal.Zero, nil
}
