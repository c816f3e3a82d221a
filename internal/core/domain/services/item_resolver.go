package services

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	DefaultMaxItemQuantity = 1000
	DefaultMaxItems        = 100
)

// CatalogReader returns the live product record, including soft-deleted ones.
type CatalogReader interface {
	Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error)
}

// RequestedItem is a cart line as submitted by a client. UnitPrice is accepted
// for wire compatibility and never used.
type RequestedItem struct {
	ProductID kernel.UUID
	VariantID *kernel.UUID
	Quantity  int
	UnitPrice *decimal.Decimal
}

// ItemResolver validates requested lines against the catalog and prices them
// from the catalog record. It has no side effects; stock is reserved later in
// the persisting transaction.
type ItemResolver struct {
	maxItemQuantity int
	maxItems        int
}

// NewItemResolver bounds the quantity of a single line and the number of lines
// per order. Both limits must be positive.
//
// Example:
//
//	resolver, err := services.NewItemResolver(1000, 100)
func NewItemResolver(maxItemQuantity, maxItems int) (ItemResolver, error) {
	var qtyErr, itemsErr error
	if maxItemQuantity <= 0 {
		qtyErr = errs.NewValueIsOutOfRangeError("max item quantity", maxItemQuantity, 1, "unbounded")
	}
	if maxItems <= 0 {
		itemsErr = errs.NewValueIsOutOfRangeError("max items", maxItems, 1, "unbounded")
	}
	if err := errors.Join(qtyErr, itemsErr); err != nil {
		return ItemResolver{}, err
	}
	return ItemResolver{maxItemQuantity: maxItemQuantity, maxItems: maxItems}, nil
}

// Resolve returns one order item per requested line. Quantities of lines that
// share a product are summed before the stock check.
func (r ItemResolver) Resolve(ctx context.Context, reader CatalogReader, requested []RequestedItem) ([]order.Item, error) {
	if len(requested) == 0 || len(requested) > r.maxItems {
		return nil, errs.NewValueIsOutOfRangeError("items", len(requested), 1, r.maxItems)
	}

	items := make([]order.Item, 0, len(requested))
	products := make(map[kernel.UUID]*catalog.Product, len(requested))
	wanted := make(map[kernel.UUID]int, len(requested))
	var seen []kernel.UUID

	for _, line := range requested {
		if line.Quantity <= 0 || line.Quantity > r.maxItemQuantity {
			return nil, errs.NewValueIsOutOfRangeErrorWithCause("quantity", line.Quantity, 1, r.maxItemQuantity,
				fmt.Errorf("product %s", line.ProductID))
		}

		product, ok := products[line.ProductID]
		if !ok {
			var err error
			if product, err = r.load(ctx, reader, line.ProductID); err != nil {
				return nil, err
			}
			products[line.ProductID] = product
			seen = append(seen, line.ProductID)
		}
		wanted[line.ProductID] += line.Quantity

		item, err := newItem(product, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	for _, id := range seen {
		product := products[id]
		if product.StockQuantity() < wanted[id] {
			return nil, errs.NewInsufficientStockError(id.String(), wanted[id], product.StockQuantity())
		}
	}

	return items, nil
}

func (r ItemResolver) load(ctx context.Context, reader CatalogReader, id kernel.UUID) (*catalog.Product, error) {
	product, err := reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsDeleted() {
		return nil, errs.NewValueIsInvalidErrorWithCause("product",
			fmt.Errorf("product %s (%s) is no longer available", product.Name(), id))
	}
	return product, nil
}

func newItem(product *catalog.Product, line RequestedItem) (order.Item, error) {
	offer, err := product.OfferFor(line.VariantID)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(order.ItemParams{
		ProductID: product.ID(),
		VariantID: line.VariantID,
		Name:      offer.Name,
		SKU:       offer.SKU,
		Quantity:  line.Quantity,
		UnitPrice: offer.UnitPrice,
		Section:   product.Section(),
	})
}
