package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// UserFacadeStub provides controllable behaviour for user endpoints.
type UserFacadeStub struct {
	UsersFn          func(context.Context, model.Pagination) ([]model.User, int64, error)
	UserFn           func(context.Context, int64) (*model.User, error)
	UserByUsernameFn func(context.Context, string) (*model.User, error)
	CreateUserFn     func(context.Context, *model.User) (*model.User, error)
	UpdateUserFn     func(context.Context, int64, *model.User) (*model.User, error)
	DeleteUserFn     func(context.Context, int64) error
	SearchUsersFn    func(context.Context, string, model.Pagination) ([]model.User, int64, error)
}

// Users delegates to the provided function or returns a single default user.
func (s UserFacadeStub) Users(ctx context.Context, p model.Pagination) ([]model.User, int64, error) {
	if s.UsersFn != nil {
		return s.UsersFn(ctx, p)
	}
	return []model.User{{ID: 1, Username: "alice"}}, 1, nil
}

// User delegates to the provided function or returns a default user.
func (s UserFacadeStub) User(ctx context.Context, id int64) (*model.User, error) {
	if s.UserFn != nil {
		return s.UserFn(ctx, id)
	}
	return &model.User{ID: id, Username: "alice"}, nil
}

// UserByUsername delegates to the provided function or echoes the username.
func (s UserFacadeStub) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	if s.UserByUsernameFn != nil {
		return s.UserByUsernameFn(ctx, username)
	}
	return &model.User{ID: 1, Username: username}, nil
}

// CreateUser delegates to the provided function or assigns identifier 1.
func (s UserFacadeStub) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if s.CreateUserFn != nil {
		return s.CreateUserFn(ctx, user)
	}
	created := *user
	created.ID = 1
	return &created, nil
}

// UpdateUser delegates to the provided function or echoes the input.
func (s UserFacadeStub) UpdateUser(ctx context.Context, id int64, user *model.User) (*model.User, error) {
	if s.UpdateUserFn != nil {
		return s.UpdateUserFn(ctx, id, user)
	}
	updated := *user
	updated.ID = id
	return &updated, nil
}

// DeleteUser delegates to the provided function or succeeds.
func (s UserFacadeStub) DeleteUser(ctx context.Context, id int64) error {
	if s.DeleteUserFn != nil {
		return s.DeleteUserFn(ctx, id)
	}
	return nil
}

// SearchUsers delegates to the provided function or returns no matches.
func (s UserFacadeStub) SearchUsers(ctx context.Context, name string, p model.Pagination) ([]model.User, int64, error) {
	if s.SearchUsersFn != nil {
		return s.SearchUsersFn(ctx, name, p)
	}
	return nil, 0, nil
}

// ProductFacadeStub provides controllable behaviour for catalog endpoints.
type ProductFacadeStub struct {
	ProductsFn       func(context.Context, model.Pagination) ([]model.Product, int64, error)
	ProductFn        func(context.Context, int64) (*model.Product, error)
	CreateProductFn  func(context.Context, *model.Product) (*model.Product, error)
	UpdateProductFn  func(context.Context, int64, *model.Product) (*model.Product, error)
	DeleteProductFn  func(context.Context, int64) error
	SearchProductsFn func(context.Context, string, model.Pagination) ([]model.Product, int64, error)
	PriceRangeFn     func(context.Context, decimal.Decimal, decimal.Decimal, model.Pagination) ([]model.Product, int64, error)
	LowStockFn       func(context.Context, int) ([]model.Product, error)
}

// Products delegates to the provided function or returns a single default product.
func (s ProductFacadeStub) Products(ctx context.Context, p model.Pagination) ([]model.Product, int64, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, p)
	}
	return []model.Product{{ID: 1, Name: "widget", Price: decimal.NewFromInt(1)}}, 1, nil
}

// Product delegates to the provided function or returns a default product.
func (s ProductFacadeStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id, Name: "widget", Price: decimal.NewFromInt(1)}, nil
}

// CreateProduct delegates to the provided function or assigns identifier 1.
func (s ProductFacadeStub) CreateProduct(ctx context.Context, product *model.Product) (*model.Product, error) {
	if s.CreateProductFn != nil {
		return s.CreateProductFn(ctx, product)
	}
	created := *product
	created.ID = 1
	return &created, nil
}

// UpdateProduct delegates to the provided function or echoes the input.
func (s ProductFacadeStub) UpdateProduct(ctx context.Context, id int64, product *model.Product) (*model.Product, error) {
	if s.UpdateProductFn != nil {
		return s.UpdateProductFn(ctx, id, product)
	}
	updated := *product
	updated.ID = id
	return &updated, nil
}

// DeleteProduct delegates to the provided function or succeeds.
func (s ProductFacadeStub) DeleteProduct(ctx context.Context, id int64) error {
	if s.DeleteProductFn != nil {
		return s.DeleteProductFn(ctx, id)
	}
	return nil
}

// SearchProducts delegates to the provided function or returns no matches.
func (s ProductFacadeStub) SearchProducts(ctx context.Context, name string, p model.Pagination) ([]model.Product, int64, error) {
	if s.SearchProductsFn != nil {
		return s.SearchProductsFn(ctx, name, p)
	}
	return nil, 0, nil
}

// ProductsByPriceRange delegates to the provided function or returns no matches.
func (s ProductFacadeStub) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal, p model.Pagination) ([]model.Product, int64, error) {
	if s.PriceRangeFn != nil {
		return s.PriceRangeFn(ctx, min, max, p)
	}
	return nil, 0, nil
}

// LowStockProducts delegates to the provided function or returns no matches.
func (s ProductFacadeStub) LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	if s.LowStockFn != nil {
		return s.LowStockFn(ctx, threshold)
	}
	return nil, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceOrderFn     func(context.Context, int64, []model.NewOrderItem, model.OrderStatus) (*model.Order, error)
	OrderFn          func(context.Context, int64) (*model.Order, error)
	OrderByNumberFn  func(context.Context, string) (*model.Order, error)
	OrdersFn         func(context.Context, model.Pagination) ([]model.Order, int64, error)
	OrdersByUserFn   func(context.Context, int64, model.Pagination) ([]model.Order, int64, error)
	OrdersByStatusFn func(context.Context, model.OrderStatus, model.Pagination) ([]model.Order, int64, error)
	UpdateStatusFn   func(context.Context, int64, model.OrderStatus) (*model.Order, error)
	CancelFn         func(context.Context, int64) (*model.Order, error)
}

// PlaceOrder delegates to the provided function or returns a default order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error) {
	if s.PlaceOrderFn != nil {
		return s.PlaceOrderFn(ctx, userID, items, status)
	}
	return &model.Order{ID: 1, OrderNumber: "ORD-1", UserID: userID, Status: status}, nil
}

// Order delegates to the provided function or returns a default order.
func (s OrderFacadeStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, OrderNumber: "ORD-1", Status: model.OrderStatusPending}, nil
}

// OrderByNumber delegates to the provided function or echoes the number.
func (s OrderFacadeStub) OrderByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.OrderByNumberFn != nil {
		return s.OrderByNumberFn(ctx, number)
	}
	return &model.Order{ID: 1, OrderNumber: number, Status: model.OrderStatusPending}, nil
}

// Orders delegates to the provided function or returns a single default order.
func (s OrderFacadeStub) Orders(ctx context.Context, p model.Pagination) ([]model.Order, int64, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, p)
	}
	return []model.Order{{ID: 1, OrderNumber: "ORD-1"}}, 1, nil
}

// OrdersByUser delegates to the provided function or returns no matches.
func (s OrderFacadeStub) OrdersByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error) {
	if s.OrdersByUserFn != nil {
		return s.OrdersByUserFn(ctx, userID, p)
	}
	return nil, 0, nil
}

// OrdersByStatus delegates to the provided function or returns no matches.
func (s OrderFacadeStub) OrdersByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error) {
	if s.OrdersByStatusFn != nil {
		return s.OrdersByStatusFn(ctx, status, p)
	}
	return nil, 0, nil
}

// UpdateOrderStatus delegates to the provided function or echoes the target status.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	return &model.Order{ID: orderID, OrderNumber: "ORD-1", Status: status}, nil
}

// CancelOrder delegates to the provided function or returns a cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, OrderNumber: "ORD-1", Status: model.OrderStatusCancelled}, nil
}

// ShopFacadeStub aggregates the endpoint stubs into a single facade.
type ShopFacadeStub struct {
	UserFacadeStub
	ProductFacadeStub
	OrderFacadeStub
}

// StockMonitorFacadeStub mimics worker interactions with the catalog.
type StockMonitorFacadeStub struct {
	Batches    [][]model.Product
	LowStockFn func(context.Context, int) ([]model.Product, error)

	mu         sync.Mutex
	calls      int32
	Thresholds []int
}

// Lock exposes internal mutex for external synchronization.
func (s *StockMonitorFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *StockMonitorFacadeStub) Unlock() { s.mu.Unlock() }

// LowStockProducts returns batches from the configured queue and records the
// threshold of every call.
func (s *StockMonitorFacadeStub) LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error) {
	s.mu.Lock()
	s.Thresholds = append(s.Thresholds, threshold)
	s.mu.Unlock()
	if s.LowStockFn != nil {
		return s.LowStockFn(ctx, threshold)
	}
	call := atomic.AddInt32(&s.calls, 1)
	if int(call) <= len(s.Batches) {
		return s.Batches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}
