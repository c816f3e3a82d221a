// Package productrepo is the order engine's view of the catalog tables.
package productrepo

import (
	"encoding/json"
	"time"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the products row. Attributes hold the section-specific JSON.
type ProductDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name          string          `gorm:"type:varchar(255);not null"`
	SKU           string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	StockQuantity int             `gorm:"not null;check:chk_products_stock_quantity,stock_quantity >= 0"`
	Section       string          `gorm:"type:varchar(32);not null;index"`
	Attributes    []byte          `gorm:"type:jsonb"`
	Variants      []VariantDTO    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	DeletedAt     *time.Time      `gorm:"index"`
	UpdatedAt     time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

// VariantDTO is a product_variants row. A nil PriceOverride falls back to the
// product price.
type VariantDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name          string           `gorm:"type:varchar(255)"`
	SKU           string           `gorm:"column:sku;type:varchar(64)"`
	PriceOverride *decimal.Decimal `gorm:"type:numeric(12,2)"`
}

func (VariantDTO) TableName() string {
	return "product_variants"
}

func fromDomain(p *catalog.Product) (ProductDTO, error) {
	id := p.ID().Bytes()

	var attrs []byte
	if a := p.Attributes(); a != nil {
		raw, err := json.Marshal(a)
		if err != nil {
			return ProductDTO{}, err
		}
		attrs = raw
	}

	dto := ProductDTO{
		ID:            id,
		Name:          p.Name(),
		SKU:           p.SKU(),
		Price:         p.Price().Decimal(),
		StockQuantity: p.StockQuantity(),
		Section:       p.Section().String(),
		Attributes:    attrs,
		DeletedAt:     p.DeletedAt(),
	}

	for _, v := range p.Variants() {
		variant := VariantDTO{ID: v.ID.Bytes(), ProductID: id, Name: v.Name, SKU: v.SKU}
		if v.PriceOverride != nil {
			price := v.PriceOverride.Decimal()
			variant.PriceOverride = &price
		}
		dto.Variants = append(dto.Variants, variant)
	}

	return dto, nil
}

func toDomain(dto ProductDTO) (*catalog.Product, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	section := kernel.Section(dto.Section)
	attrs, err := catalog.DecodeAttributes(section, dto.Attributes)
	if err != nil {
		return nil, err
	}

	variants := make([]catalog.Variant, 0, len(dto.Variants))
	for _, v := range dto.Variants {
		variantID, idErr := kernel.UUIDFromGoogle(v.ID)
		if idErr != nil {
			return nil, idErr
		}
		variant := catalog.Variant{ID: variantID, Name: v.Name, SKU: v.SKU}
		if v.PriceOverride != nil {
			override, moneyErr := kernel.NewMoney(*v.PriceOverride)
			if moneyErr != nil {
				return nil, moneyErr
			}
			variant.PriceOverride = &override
		}
		variants = append(variants, variant)
	}

	return catalog.RestoreProduct(catalog.ProductParams{
		ID:            id,
		Name:          dto.Name,
		SKU:           dto.SKU,
		Price:         price,
		StockQuantity: dto.StockQuantity,
		Section:       section,
		Variants:      variants,
		Attributes:    attrs,
		DeletedAt:     dto.DeletedAt,
	})
}
