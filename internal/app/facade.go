package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/usecase"
)

// ShopFacade aggregates the use cases behind a single application surface
// consumed by the HTTP handlers and the background worker.
type ShopFacade struct {
	users    *usecase.UserUseCase
	products *usecase.ProductUseCase
	orders   *usecase.OrderUseCase
}

// NewShopFacade constructs ShopFacade.
func NewShopFacade(users *usecase.UserUseCase, products *usecase.ProductUseCase, orders *usecase.OrderUseCase) *ShopFacade {
	return &ShopFacade{users: users, products: products, orders: orders}
}

func (f *ShopFacade) Users(ctx context.Context, p model.Pagination) ([]model.User, int64, error) {
	return f.users.List(ctx, p)
}

func (f *ShopFacade) User(ctx context.Context, id int64) (*model.User, error) {
	return f.users.Get(ctx, id)
}

func (f *ShopFacade) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return f.users.GetByUsername(ctx, username)
}

func (f *ShopFacade) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	return f.users.Create(ctx, user)
}

func (f *ShopFacade) UpdateUser(ctx context.Context, id int64, user *model.User) (*model.User, error) {
	return f.users.Update(ctx, id, user)
}

func (f *ShopFacade) DeleteUser(ctx context.Context, id int64) error {
	return f.users.Delete(ctx, id)
}

func (f *ShopFacade) SearchUsers(ctx context.Context, name string, p model.Pagination) ([]model.User, int64, error) {
	return f.users.Search(ctx, name, p)
}

func (f *ShopFacade) Products(ctx context.Context, p model.Pagination) ([]model.Product, int64, error) {
	return f.products.List(ctx, p)
}

func (f *ShopFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.products.Get(ctx, id)
}

func (f *ShopFacade) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	return f.products.Create(ctx, product)
}

func (f *ShopFacade) UpdateProduct(ctx context.Context, id int64, product *model.Product) (*model.Product, error) {
	return f.products.Update(ctx, id, product)
}

func (f *ShopFacade) DeleteProduct(ctx context.Context, id int64) error {
	return f.products.Delete(ctx, id)
}

func (f *ShopFacade) SearchProducts(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error) {
	return f.products.Search(ctx, name, p)
}

func (f *ShopFacade) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error) {
	return f.products.ListByPriceRange(ctx, min, max, p)
}

func (f *ShopFacade) LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	return f.products.ListLowStock(ctx, threshold)
}

func (f *ShopFacade) PlaceOrder(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error) {
	return f.orders.Create(ctx, userID, items, status)
}

func (f *ShopFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *ShopFacade) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	return f.orders.GetByNumber(ctx, number)
}

func (f *ShopFacade) Orders(ctx context.Context, p model.Pagination) ([]model.Order, int64, error) {
	return f.orders.List(ctx, p)
}

func (f *ShopFacade) OrdersByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error) {
	return f.orders.ListByUser(ctx, userID, p)
}

func (f *ShopFacade) OrdersByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error) {
	return f.orders.ListByStatus(ctx, status, p)
}

func (f *ShopFacade) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, orderID, status)
}

func (f *ShopFacade) CancelOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, orderID)
}
