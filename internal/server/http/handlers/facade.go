package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// UserFacade describes user management operations exposed via HTTP.
type UserFacade interface {
	Users(ctx context.Context, p model.Pagination) ([]model.User, int64, error)
	User(ctx context.Context, id int64) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id int64, user *model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	SearchUsers(ctx context.Context, name string, p model.Pagination) ([]model.User, int64, error)
}

// ProductFacade describes catalog operations exposed via HTTP.
type ProductFacade interface {
	Products(ctx context.Context, p model.Pagination) ([]model.Product, int64, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int64, product *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	SearchProducts(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error)
	ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error)
	LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
}

// OrderFacade describes order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	OrderByNumber(ctx context.Context, number string) (*model.Order, error)
	Orders(ctx context.Context, p model.Pagination) ([]model.Order, int64, error)
	OrdersByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error)
	OrdersByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*model.Order, error)
}

// ShopFacade aggregates the full set of operations used across handlers.
type ShopFacade interface {
	UserFacade
	ProductFacade
	OrderFacade
}
