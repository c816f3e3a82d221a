// Package customerrepo stores customers and the order statistics kept on them.
package customerrepo

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/customer"
	"storefront/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerDTO is the customers row. Email is stored normalized.
type CustomerDTO struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email             string          `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(255)"`
	Phone             string          `gorm:"type:varchar(64)"`
	OrderCount        int             `gorm:"not null;default:0"`
	TotalSpent        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AverageOrderValue decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	LastOrderAt       *time.Time
}

func (CustomerDTO) TableName() string {
	return "customers"
}

func fromDomain(c *customer.Customer) CustomerDTO {
	stats := c.Stats()
	return CustomerDTO{
		ID:                c.ID().Bytes(),
		Email:             c.Email(),
		Name:              c.Name(),
		Phone:             c.Phone(),
		OrderCount:        stats.OrderCount,
		TotalSpent:        stats.TotalSpent.Decimal(),
		AverageOrderValue: stats.AverageOrderValue.Decimal(),
		LastOrderAt:       stats.LastOrderAt,
	}
}

func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	spent, spentErr := kernel.NewMoney(dto.TotalSpent)
	avg, avgErr := kernel.NewMoney(dto.AverageOrderValue)
	if err = errors.Join(spentErr, avgErr); err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(id, dto.Email, dto.Name, dto.Phone, customer.Stats{
		OrderCount:        dto.OrderCount,
		TotalSpent:        spent,
		AverageOrderValue: avg,
		LastOrderAt:       dto.LastOrderAt,
	})
}
