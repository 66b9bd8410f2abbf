package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// ProductRepository describes persistence operations for catalog products,
// including the stock ledger operations consumed by the order lifecycle.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, p model.Pagination) ([]model.Product, int64, error)
	SearchByName(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error)
	ListByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error)
	ListLowStock(ctx context.Context, threshold int) ([]model.Product, error)

	// Reserve atomically decrements available stock, failing with
	// ErrInsufficientStock when the product holds less than quantity.
	Reserve(ctx context.Context, productID int64, quantity int) error
	// Release increments available stock. Callers must only release
	// quantities previously reserved for the same order.
	Release(ctx context.Context, productID int64, quantity int) error
}
