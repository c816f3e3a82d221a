package productrepo

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/adapters/out/postgres/pgerrs"
	"storefront/internal/core/domain/model/catalog"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ports.ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a repository on db, which may be a pool or
// an open transaction.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// Add inserts a product with its variants. A duplicate SKU is reported as
// errs.ConflictError.
//
// Example:
//
//	p, _ := catalog.NewProduct(catalog.ProductParams{Name: "Desk Lamp", SKU: "LAMP-01", ...})
//	err := repo.Add(ctx, p)
func (r *GormProductRepository) Add(ctx context.Context, product *catalog.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(product)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "product")
	}
	return nil
}

// Update replaces the product row and its variants.
func (r *GormProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(product)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&ProductDTO{ID: dto.ID}).
			Select("name", "sku", "price", "stock_quantity", "section", "attributes", "deleted_at", "updated_at").
			Omit(clause.Associations).
			Updates(&dto)
		if result.Error != nil {
			return pgerrs.Translate(result.Error, "product")
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("product", product.ID().String())
		}

		if err := tx.Delete(&VariantDTO{}, "product_id = ?", dto.ID).Error; err != nil {
			return err
		}
		if len(dto.Variants) == 0 {
			return nil
		}
		return pgerrs.Translate(tx.Create(&dto.Variants).Error, "variant")
	})
}

// Get reads a product with its variants, soft-deleted ones included. Callers
// decide whether a deleted product may still be ordered.
func (r *GormProductRepository) Get(ctx context.Context, id kernel.UUID) (*catalog.Product, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).Preload("Variants").Take(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// DecrementStock reserves quantity units with a conditional update, so two
// transactions can never both take the last units. The row lock taken by the
// update is held until the surrounding transaction ends.
//
// A shortfall is errs.InsufficientStockError carrying the stock that was left.
// A missing product is errs.ObjectNotFoundError, a soft-deleted one
// errs.ValueIsInvalidError.
//
// Example:
//
//	err := uow.ProductRepository().DecrementStock(ctx, productID, 3)
//	var short *errs.InsufficientStockError
//	if errors.As(err, &short) {
//	    log.Printf("only %d left", short.Available)
//	}
func (r *GormProductRepository) DecrementStock(ctx context.Context, id kernel.UUID, quantity int) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if quantity <= 0 {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}

	result := r.db.WithContext(ctx).
		Model(&ProductDTO{}).
		Where("id = ? AND deleted_at IS NULL AND stock_quantity >= ?", id.Bytes(), quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "product")
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var current ProductDTO
	err := r.db.WithContext(ctx).Select("stock_quantity", "deleted_at").Take(&current, "id = ?", id.Bytes()).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundError("product", id.String())
	case err != nil:
		return fmt.Errorf("read stock of product %s: %w", id, err)
	case current.DeletedAt != nil:
		return errs.NewValueIsInvalidErrorWithCause("product", errors.New("product "+id.String()+" is no longer available"))
	case current.StockQuantity >= quantity:
		// stock moved between the update and this read
		return errs.NewInsufficientStockError(id.String(), quantity, -1)
	}
	return errs.NewInsufficientStockError(id.String(), quantity, current.StockQuantity)
}
