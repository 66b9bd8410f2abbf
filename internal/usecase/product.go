package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/domain/repository"
)

// ProductUseCase manages catalog products.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// List returns a page of products with the total count.
func (u *ProductUseCase) List(ctx context.Context, p model.Pagination) ([]model.Product, int64, error) {
	return u.products.List(ctx, p)
}

// Get returns product by identifier.
func (u *ProductUseCase) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

// Create adds a new product to the catalog.
func (u *ProductUseCase) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.Status == "" {
		product.Status = model.ProductStatusAvailable
	}
	if !product.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, product.Status)
	}
	return u.products.Create(ctx, product)
}

// Update replaces product fields, including direct stock edits.
func (u *ProductUseCase) Update(ctx context.Context, id int64, product *model.Product) (*model.Product, error) {
	existing, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if product.Status == "" {
		product.Status = existing.Status
	}
	if !product.Status.Valid() {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, product.Status)
	}

	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.StockQuantity = product.StockQuantity
	existing.Status = product.Status

	return u.products.Update(ctx, existing)
}

// Delete removes a product from the catalog.
func (u *ProductUseCase) Delete(ctx context.Context, id int64) error {
	err := u.products.Delete(ctx, id)
	if errors.Is(err, domainErrors.ErrNotFound) {
		return fmt.Errorf("%w: product %d", domainErrors.ErrNotFound, id)
	}
	return err
}

// Search returns products whose name or description contains the substring.
func (u *ProductUseCase) Search(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error) {
	return u.products.SearchByName(ctx, name, p)
}

// ListByPriceRange returns products priced within [min, max].
func (u *ProductUseCase) ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error) {
	if min.GreaterThan(max) {
		return nil, 0, fmt.Errorf("%w: min price exceeds max price", domainErrors.ErrInvalidPrice)
	}
	return u.products.ListByPriceRange(ctx, min, max, p)
}

// ListLowStock returns products whose stock is below the threshold.
func (u *ProductUseCase) ListLowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return u.products.ListLowStock(ctx, threshold)
}

func validateProduct(product *model.Product) error {
	if !product.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than 0", domainErrors.ErrInvalidPrice)
	}
	if product.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", domainErrors.ErrInvalidQuantity)
	}
	return nil
}
