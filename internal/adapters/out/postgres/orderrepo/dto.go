// Package orderrepo persists order aggregates: one orders row, its order_items
// rows and an optional shipping_addresses row.
package orderrepo

import (
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Numbers come from the order_number_seq sequence.
type OrderDTO struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Number            int64               `gorm:"not null;uniqueIndex"`
	CustomerID        *uuid.UUID          `gorm:"type:uuid;index"`
	GuestToken        string              `gorm:"type:varchar(64)"`
	Email             string              `gorm:"type:varchar(255);not null;index"`
	CustomerName      string              `gorm:"type:varchar(255)"`
	Phone             string              `gorm:"type:varchar(64)"`
	Section           string              `gorm:"type:varchar(32);not null;index"`
	Subtotal          decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Discount          decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Tax               decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	ShippingCost      decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Total             decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Currency          string              `gorm:"type:char(3);not null"`
	DiscountCode      string              `gorm:"type:varchar(64)"`
	Tags              []string            `gorm:"type:jsonb;serializer:json"`
	Notes             string              `gorm:"type:text"`
	PaymentMethod     string              `gorm:"type:varchar(64)"`
	PaymentStatus     string              `gorm:"type:varchar(16);not null;index"`
	FulfillmentStatus string              `gorm:"type:varchar(16);not null;index"`
	CreatedBy         string              `gorm:"type:varchar(64)"`
	CreatedAt         time.Time           `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt         time.Time           `gorm:"not null;autoUpdateTime:false"`
	DeletedAt         *time.Time          `gorm:"index"`
	Items             []OrderItemDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress   *ShippingAddressDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is an order_items row; Position keeps the submitted line order.
type OrderItemDTO struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID *uuid.UUID      `gorm:"type:uuid"`
	Name      string          `gorm:"type:varchar(255);not null"`
	SKU       string          `gorm:"column:sku;type:varchar(64);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Section   string          `gorm:"type:varchar(32);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

// ShippingAddressDTO shares the primary key of its order.
type ShippingAddressDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255)"`
	Line1      string    `gorm:"type:varchar(255);not null"`
	Line2      string    `gorm:"type:varchar(255)"`
	City       string    `gorm:"type:varchar(128);not null"`
	State      string    `gorm:"type:varchar(128)"`
	PostalCode string    `gorm:"type:varchar(32);not null"`
	Country    string    `gorm:"type:varchar(2);not null"`
	Phone      string    `gorm:"type:varchar(64)"`
}

func (ShippingAddressDTO) TableName() string {
	return "shipping_addresses"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()
	pricing := o.Pricing()
	contact := o.Contact()

	dto := OrderDTO{
		ID:                id,
		Number:            o.Number().Int64(),
		CustomerID:        optionalID(o.CustomerID()),
		GuestToken:        o.GuestToken(),
		Email:             contact.Email,
		CustomerName:      contact.Name,
		Phone:             contact.Phone,
		Section:           o.Section().String(),
		Subtotal:          pricing.Subtotal.Decimal(),
		Discount:          pricing.Discount.Decimal(),
		Tax:               pricing.Tax.Decimal(),
		ShippingCost:      pricing.ShippingCost.Decimal(),
		Total:             pricing.Total.Decimal(),
		Currency:          o.Currency(),
		DiscountCode:      o.DiscountCode(),
		Tags:              o.Tags(),
		Notes:             o.Notes(),
		PaymentMethod:     o.PaymentMethod(),
		PaymentStatus:     o.PaymentStatus().String(),
		FulfillmentStatus: o.FulfillmentStatus().String(),
		CreatedBy:         o.CreatedBy(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
		DeletedAt:         o.DeletedAt(),
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:   id,
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			VariantID: optionalID(item.VariantID()),
			Name:      item.Name(),
			SKU:       item.SKU(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
			LineTotal: item.LineTotal().Decimal(),
			Section:   item.Section().String(),
		})
	}

	if addr := o.ShippingAddress(); addr != nil {
		dto.ShippingAddress = &ShippingAddressDTO{
			OrderID:    id,
			Name:       addr.Name,
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
			Phone:      addr.Phone,
		}
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := restoreOptionalID(dto.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	pricing, err := pricingToDomain(dto)
	if err != nil {
		return nil, err
	}

	section, sectionErr := kernel.ParseSection(dto.Section)
	payment, paymentErr := order.ParsePaymentStatus(dto.PaymentStatus)
	fulfillment, fulfillmentErr := order.ParseFulfillmentStatus(dto.FulfillmentStatus)
	if err = errors.Join(sectionErr, paymentErr, fulfillmentErr); err != nil {
		return nil, err
	}

	var address *order.ShippingAddress
	if a := dto.ShippingAddress; a != nil {
		address = &order.ShippingAddress{
			Name:       a.Name,
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
			Phone:      a.Phone,
		}
	}

	return order.RestoreOrder(order.RestoreParams{
		Params: order.Params{
			ID:              id,
			Number:          order.Number(dto.Number),
			CustomerID:      customerID,
			GuestToken:      dto.GuestToken,
			Contact:         order.Contact{Email: dto.Email, Name: dto.CustomerName, Phone: dto.Phone},
			Items:           items,
			ShippingAddress: address,
			Pricing:         pricing,
			Currency:        dto.Currency,
			DiscountCode:    dto.DiscountCode,
			Tags:            dto.Tags,
			Notes:           dto.Notes,
			PaymentMethod:   dto.PaymentMethod,
			CreatedBy:       dto.CreatedBy,
		},
		Section:           section,
		PaymentStatus:     payment,
		FulfillmentStatus: fulfillment,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
		DeletedAt:         dto.DeletedAt,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return order.Item{}, err
	}
	variantID, err := restoreOptionalID(dto.VariantID)
	if err != nil {
		return order.Item{}, err
	}
	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(order.ItemParams{
		ProductID: productID,
		VariantID: variantID,
		Name:      dto.Name,
		SKU:       dto.SKU,
		Quantity:  dto.Quantity,
		UnitPrice: unitPrice,
		Section:   kernel.Section(dto.Section),
	})
}

func pricingToDomain(dto OrderDTO) (order.Pricing, error) {
	subtotal, subtotalErr := kernel.NewMoney(dto.Subtotal)
	discount, discountErr := kernel.NewMoney(dto.Discount)
	tax, taxErr := kernel.NewMoney(dto.Tax)
	shipping, shippingErr := kernel.NewMoney(dto.ShippingCost)
	total, totalErr := kernel.NewMoney(dto.Total)
	if err := errors.Join(subtotalErr, discountErr, taxErr, shippingErr, totalErr); err != nil {
		return order.Pricing{}, err
	}
	return order.Pricing{
		Subtotal:     subtotal,
		Discount:     discount,
		Tax:          tax,
		ShippingCost: shipping,
		Total:        total,
	}, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
