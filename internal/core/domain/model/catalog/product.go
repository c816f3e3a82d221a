package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct")

// Variant is a purchasable option of a product. A nil PriceOverride means the
// product price applies; an empty SKU means the product SKU applies.
type Variant struct {
	ID            kernel.UUID
	Name          string
	SKU           string
	PriceOverride *kernel.Money
}

// ProductParams carries the fields of a product record.
type ProductParams struct {
	ID            kernel.UUID
	Name          string
	SKU           string
	Price         kernel.Money
	StockQuantity int
	Section       kernel.Section
	Variants      []Variant
	Attributes    Attributes
	DeletedAt     *time.Time
}

// Product is a read model of a catalog record at the moment it was fetched.
type Product struct {
	params        ProductParams
	isConstructed bool
}

// NewProduct validates a new, live catalog product.
func NewProduct(params ProductParams) (*Product, error) {
	params.DeletedAt = nil
	return RestoreProduct(params)
}

// RestoreProduct rebuilds a product from persistence, keeping its deletion mark.
func RestoreProduct(params ProductParams) (*Product, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.SKU = strings.TrimSpace(params.SKU)

	var attrErr error
	if params.Attributes != nil && params.Attributes.Section() != params.Section {
		attrErr = errs.NewValueIsInvalidErrorWithCause("attributes",
			fmt.Errorf("%s attributes on a %s product", params.Attributes.Section(), params.Section))
	}

	if err := errors.Join(
		params.ID.Validate(),
		requireText("name", params.Name),
		requireText("sku", params.SKU),
		validateStock(params.StockQuantity),
		validateCatalogSection(params.Section),
		validateVariants(params.Variants),
		attrErr,
	); err != nil {
		return nil, err
	}

	params.Variants = append([]Variant(nil), params.Variants...)
	return &Product{params: params, isConstructed: true}, nil
}

// Validate reports ErrProductIsNotConstructed for a nil or zero product.
func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

// ID returns the product's unique identifier.
func (p *Product) ID() kernel.UUID {
	return p.params.ID
}

// Name returns the display name.
func (p *Product) Name() string {
	return p.params.Name
}

// SKU returns the stock keeping unit.
func (p *Product) SKU() string {
	return p.params.SKU
}

// Price returns the base price.
func (p *Product) Price() kernel.Money {
	return p.params.Price
}

// StockQuantity returns the units on hand when the product was read.
func (p *Product) StockQuantity() int {
	return p.params.StockQuantity
}

// Section returns the catalog section.
func (p *Product) Section() kernel.Section {
	return p.params.Section
}

// Attributes returns the section-specific attributes, possibly nil.
func (p *Product) Attributes() Attributes {
	return p.params.Attributes
}

// DeletedAt returns when the product was withdrawn, or nil.
func (p *Product) DeletedAt() *time.Time {
	return p.params.DeletedAt
}

// IsDeleted reports whether the product was withdrawn.
func (p *Product) IsDeleted() bool {
	return p.params.DeletedAt != nil
}

// Variants returns a copy of the variants.
func (p *Product) Variants() []Variant {
	return append([]Variant(nil), p.params.Variants...)
}

// Offer is the authoritative price, SKU and display name for a product or one of its variants.
type Offer struct {
	Name      string
	SKU       string
	UnitPrice kernel.Money
}

// OfferFor resolves the price and naming for variantID (nil for the base product).
func (p *Product) OfferFor(variantID *kernel.UUID) (Offer, error) {
	offer := Offer{Name: p.params.Name, SKU: p.params.SKU, UnitPrice: p.params.Price}
	if variantID == nil {
		return offer, nil
	}

	for _, v := range p.params.Variants {
		if !v.ID.IsEqual(*variantID) {
			continue
		}
		if v.Name != "" {
			offer.Name = p.params.Name + " - " + v.Name
		}
		if v.SKU != "" {
			offer.SKU = v.SKU
		}
		if v.PriceOverride != nil {
			offer.UnitPrice = *v.PriceOverride
		}
		return offer, nil
	}

	return Offer{}, errs.NewObjectNotFoundError("variant", variantID.String())
}

func requireText(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func validateStock(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsOutOfRangeError("stock quantity", quantity, 0, "unbounded")
	}
	return nil
}

func validateCatalogSection(section kernel.Section) error {
	if !section.IsCatalogSection() {
		return errs.NewValueIsInvalidErrorWithCause("section", fmt.Errorf("%q is not a catalog section", section))
	}
	return nil
}

func validateVariants(variants []Variant) error {
	seen := make(map[kernel.UUID]struct{}, len(variants))
	for _, v := range variants {
		if err := v.ID.Validate(); err != nil {
			return err
		}
		if _, dup := seen[v.ID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("variants", fmt.Errorf("duplicate variant %s", v.ID))
		}
		seen[v.ID] = struct{}{}
	}
	return nil
}
