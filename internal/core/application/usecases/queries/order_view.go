// Package queries contains the read operations of the order engine. Single
// orders are read through the order repository; listings, statistics and the
// CSV export run SQL directly against the order tables.
package queries

import (
	"time"

	"storefront/internal/core/domain/model/order"
)

// OrderView is the full representation of one order returned to callers.
type OrderView struct {
	ID                string               `json:"id"`
	Number            string               `json:"orderNumber"`
	CustomerID        *string              `json:"customerId,omitempty"`
	GuestToken        string               `json:"guestToken,omitempty"`
	Email             string               `json:"email"`
	CustomerName      string               `json:"customerName,omitempty"`
	Phone             string               `json:"phone,omitempty"`
	Section           string               `json:"section"`
	Items             []OrderItemView      `json:"items"`
	ShippingAddress   *ShippingAddressView `json:"shippingAddress,omitempty"`
	Subtotal          string               `json:"subtotal"`
	Discount          string               `json:"discount"`
	Tax               string               `json:"tax"`
	ShippingCost      string               `json:"shippingCost"`
	Total             string               `json:"total"`
	Currency          string               `json:"currency"`
	DiscountCode      string               `json:"discountCode,omitempty"`
	Tags              []string             `json:"tags"`
	Notes             string               `json:"notes,omitempty"`
	PaymentMethod     string               `json:"paymentMethod,omitempty"`
	PaymentStatus     string               `json:"paymentStatus"`
	FulfillmentStatus string               `json:"fulfillmentStatus"`
	ItemCount         int                  `json:"itemCount"`
	CreatedBy         string               `json:"createdBy,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
	DeletedAt         *time.Time           `json:"deletedAt,omitempty"`
}

// OrderItemView is one order line with prices frozen at checkout.
type OrderItemView struct {
	ProductID string  `json:"productId"`
	VariantID *string `json:"variantId,omitempty"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
	UnitPrice string  `json:"unitPrice"`
	LineTotal string  `json:"lineTotal"`
	Section   string  `json:"section"`
}

// ShippingAddressView is the delivery address of an order.
type ShippingAddressView struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// NewOrderView renders an aggregate. Money is formatted with two decimals.
func NewOrderView(o *order.Order) OrderView {
	pricing := o.Pricing()
	contact := o.Contact()

	view := OrderView{
		ID:                o.ID().String(),
		Number:            o.Number().String(),
		GuestToken:        o.GuestToken(),
		Email:             contact.Email,
		CustomerName:      contact.Name,
		Phone:             contact.Phone,
		Section:           o.Section().String(),
		Subtotal:          pricing.Subtotal.String(),
		Discount:          pricing.Discount.String(),
		Tax:               pricing.Tax.String(),
		ShippingCost:      pricing.ShippingCost.String(),
		Total:             pricing.Total.String(),
		Currency:          o.Currency(),
		DiscountCode:      o.DiscountCode(),
		Tags:              o.Tags(),
		Notes:             o.Notes(),
		PaymentMethod:     o.PaymentMethod(),
		PaymentStatus:     o.PaymentStatus().String(),
		FulfillmentStatus: o.FulfillmentStatus().String(),
		ItemCount:         o.ItemCount(),
		CreatedBy:         o.CreatedBy(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
		DeletedAt:         o.DeletedAt(),
	}
	if view.Tags == nil {
		view.Tags = []string{}
	}

	if id := o.CustomerID(); id != nil {
		s := id.String()
		view.CustomerID = &s
	}

	for _, item := range o.Items() {
		itemView := OrderItemView{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			SKU:       item.SKU(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
			LineTotal: item.LineTotal().String(),
			Section:   item.Section().String(),
		}
		if variantID := item.VariantID(); variantID != nil {
			s := variantID.String()
			itemView.VariantID = &s
		}
		view.Items = append(view.Items, itemView)
	}

	if addr := o.ShippingAddress(); addr != nil {
		view.ShippingAddress = &ShippingAddressView{
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
	return view
}
