package order

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// ItemParams describes a line item whose price and naming were resolved from the catalog.
type ItemParams struct {
	ProductID kernel.UUID
	VariantID *kernel.UUID
	Name      string
	SKU       string
	Quantity  int
	UnitPrice kernel.Money
	Section   kernel.Section
}

// Item is an immutable line of an order. Name and SKU are snapshots taken at
// order time so later catalog edits do not alter historical orders.
type Item struct {
	productID kernel.UUID
	variantID *kernel.UUID
	name      string
	sku       string
	quantity  int
	unitPrice kernel.Money
	section   kernel.Section
}

// NewItem trims name and SKU and requires both, a positive quantity and a
// catalog section. All violations are joined into one error.
//
// Example:
//
//	item, err := order.NewItem(order.ItemParams{
//		ProductID: productID,
//		Name:      "Cotton tee",
//		SKU:       "TEE-01",
//		Quantity:  2,
//		UnitPrice: kernel.MustMoney("19.90"),
//		Section:   kernel.SectionApparel,
//	})
func NewItem(params ItemParams) (Item, error) {
	name := strings.TrimSpace(params.Name)
	sku := strings.TrimSpace(params.SKU)

	var nameErr, skuErr, qtyErr, variantErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("item name")
	}
	if sku == "" {
		skuErr = errs.NewValueIsRequiredError("item sku")
	}
	if params.Quantity <= 0 {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", params.Quantity, 1, "unbounded")
	}
	if params.VariantID != nil {
		variantErr = params.VariantID.Validate()
	}

	if err := errors.Join(
		params.ProductID.Validate(),
		variantErr,
		nameErr,
		skuErr,
		qtyErr,
		validateItemSection(params.Section),
	); err != nil {
		return Item{}, err
	}

	var variantID *kernel.UUID
	if params.VariantID != nil {
		v := *params.VariantID
		variantID = &v
	}

	return Item{
		productID: params.ProductID,
		variantID: variantID,
		name:      name,
		sku:       sku,
		quantity:  params.Quantity,
		unitPrice: params.UnitPrice,
		section:   params.Section,
	}, nil
}

func validateItemSection(section kernel.Section) error {
	if !section.IsCatalogSection() {
		return errs.NewValueIsInvalidError("item section")
	}
	return nil
}

// ProductID returns the ordered product.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product name captured at order time.
func (i Item) Name() string {
	return i.name
}

// SKU returns the SKU captured at order time.
func (i Item) SKU() string {
	return i.sku
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the catalog price captured at order time.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Section returns the catalog section of the product.
func (i Item) Section() kernel.Section {
	return i.section
}

// LineTotal returns UnitPrice times Quantity.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.Times(i.quantity)
}

// VariantID returns a copy of the variant id, or nil for a base product.
func (i Item) VariantID() *kernel.UUID {
	if i.variantID == nil {
		return nil
	}
	v := *i.variantID
	return &v
}
