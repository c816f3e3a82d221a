// Package pgtest starts a disposable PostgreSQL container with the service
// schema for integration tests.
package pgtest

import (
	"context"
	"fmt"
	"time"

	adapter "storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/domain/model/order"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a migrated Postgres container for integration tests.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
	DSN       string
}

// Start runs postgres:15-alpine and applies the migrations.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	database := &Database{Container: container}
	database.DSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}

	database.DB, err = gorm.Open(gorm_postgres.Open(database.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}

	if err = adapter.Migrate(ctx, database.DB); err != nil {
		_ = database.Terminate(ctx)
		return nil, err
	}
	return database, nil
}

// Reset empties every table and restarts order numbering at order.FirstNumber.
func (d *Database) Reset(ctx context.Context) error {
	db := d.DB.WithContext(ctx)
	if err := db.Exec("TRUNCATE TABLE order_items, shipping_addresses, orders, customers, product_variants, products CASCADE").Error; err != nil {
		return err
	}
	return db.Exec(fmt.Sprintf("ALTER SEQUENCE %s RESTART WITH %d", orderrepo.NumberSequence, order.FirstNumber)).Error
}

// Terminate closes the pool and stops the container.
func (d *Database) Terminate(ctx context.Context) error {
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}
