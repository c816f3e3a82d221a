package postgres

import (
	"context"
	"fmt"

	"storefront/internal/adapters/out/postgres/customerrepo"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/postgres/productrepo"
	"storefront/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []any {
	return []any{
		&productrepo.ProductDTO{},
		&productrepo.VariantDTO{},
		&customerrepo.CustomerDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.ShippingAddressDTO{},
	}
}

// Migrate brings the schema up to date and prepares the order number sequence.
// The sequence is only ever moved forward, so numbers already issued are never
// handed out again.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	createSeq := fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s START WITH %d MINVALUE %d",
		orderrepo.NumberSequence, order.FirstNumber, order.FirstNumber)
	if err := db.Exec(createSeq).Error; err != nil {
		return fmt.Errorf("create order number sequence: %w", err)
	}

	advanceSeq := fmt.Sprintf(`SELECT setval('%[1]s', m.max_number)
		FROM (SELECT MAX(number) AS max_number FROM orders) m, %[1]s s
		WHERE m.max_number IS NOT NULL AND m.max_number >= s.last_value`,
		orderrepo.NumberSequence)
	if err := db.Exec(advanceSeq).Error; err != nil {
		return fmt.Errorf("advance order number sequence: %w", err)
	}
	return nil
}
