package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	testhelpers "github.com/polkiloo/shopmart/internal/test"
)

func newProductFixture() (*testhelpers.ProductRepositoryStub, *ProductUseCase) {
	products := testhelpers.NewProductRepositoryStub()
	return products, NewProductUseCase(products)
}

func TestProductCreateDefaultsToAvailable(t *testing.T) {
	_, uc := newProductFixture()

	product, err := uc.Create(context.Background(), &model.Product{Name: "widget", Price: decimal.RequireFromString("9.99"), StockQuantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Status != model.ProductStatusAvailable {
		t.Fatalf("expected AVAILABLE status, got %s", product.Status)
	}
}

func TestProductCreateValidation(t *testing.T) {
	_, uc := newProductFixture()

	cases := []struct {
		name    string
		product model.Product
		want    error
	}{
		{"zero price", model.Product{Name: "w", Price: decimal.Zero, StockQuantity: 1}, domainErrors.ErrInvalidPrice},
		{"negative price", model.Product{Name: "w", Price: decimal.RequireFromString("-1"), StockQuantity: 1}, domainErrors.ErrInvalidPrice},
		{"negative stock", model.Product{Name: "w", Price: decimal.RequireFromString("1"), StockQuantity: -1}, domainErrors.ErrInvalidQuantity},
		{"unknown status", model.Product{Name: "w", Price: decimal.RequireFromString("1"), StockQuantity: 1, Status: "GONE"}, domainErrors.ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			product := tc.product
			if _, err := uc.Create(context.Background(), &product); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestProductUpdate(t *testing.T) {
	products, uc := newProductFixture()
	stored := products.Add(model.Product{Name: "widget", Price: decimal.RequireFromString("9.99"), StockQuantity: 3})

	updated, err := uc.Update(context.Background(), stored.ID, &model.Product{
		Name:          "widget pro",
		Description:   "improved",
		Price:         decimal.RequireFromString("14.99"),
		StockQuantity: 8,
		Status:        model.ProductStatusAvailable,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "widget pro" || updated.StockQuantity != 8 {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	if _, err := uc.Update(context.Background(), 404, &model.Product{Name: "x", Price: decimal.RequireFromString("1"), StockQuantity: 1}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestProductGetAndDelete(t *testing.T) {
	products, uc := newProductFixture()
	stored := products.Add(model.Product{Name: "widget", Price: decimal.RequireFromString("9.99"), StockQuantity: 3})

	got, err := uc.Get(context.Background(), stored.ID)
	if err != nil || got.Name != "widget" {
		t.Fatalf("unexpected get result: %v %v", got, err)
	}

	if err := uc.Delete(context.Background(), stored.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Get(context.Background(), stored.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestProductPriceRange(t *testing.T) {
	products, uc := newProductFixture()
	products.Add(model.Product{Name: "cheap", Price: decimal.RequireFromString("1.00"), StockQuantity: 1})
	products.Add(model.Product{Name: "mid", Price: decimal.RequireFromString("10.00"), StockQuantity: 1})
	products.Add(model.Product{Name: "dear", Price: decimal.RequireFromString("100.00"), StockQuantity: 1})

	result, total, err := uc.ListByPriceRange(context.Background(), decimal.RequireFromString("5"), decimal.RequireFromString("50"), model.Pagination{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(result) != 1 || result[0].Name != "mid" {
		t.Fatalf("unexpected range result: %+v", result)
	}

	if _, _, err := uc.ListByPriceRange(context.Background(), decimal.RequireFromString("50"), decimal.RequireFromString("5"), model.Pagination{}); !errors.Is(err, domainErrors.ErrInvalidPrice) {
		t.Fatalf("expected invalid price error for inverted bounds, got %v", err)
	}
}

func TestProductLowStock(t *testing.T) {
	products, uc := newProductFixture()
	products.Add(model.Product{Name: "scarce", Price: decimal.RequireFromString("1.00"), StockQuantity: 2})
	products.Add(model.Product{Name: "plenty", Price: decimal.RequireFromString("1.00"), StockQuantity: 50})

	result, err := uc.ListLowStock(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0].Name != "scarce" {
		t.Fatalf("unexpected low stock result: %+v", result)
	}
}
