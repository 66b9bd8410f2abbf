package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic: placement with stock
// reservation, status transitions, and cancellation with stock restoration.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Create places an order for the user. The repository commits the order and
// all its stock reservations atomically, so a failure on any line leaves
// every product untouched.
func (u *OrderUseCase) Create(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error) {
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %d", domainErrors.ErrInvalidQuantity, item.ProductID)
		}
	}
	if status == "" {
		status = model.OrderStatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, status)
	}
	return u.orders.Create(ctx, userID, items, status)
}

// Get returns order by identifier.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// GetByNumber returns order by its human-facing number.
func (u *OrderUseCase) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	return u.orders.GetByNumber(ctx, number)
}

// List returns a page of orders with the total count.
func (u *OrderUseCase) List(ctx context.Context, p model.Pagination) ([]model.Order, int64, error) {
	return u.orders.List(ctx, p)
}

// ListByUser returns orders placed by the given user.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error) {
	return u.orders.ListByUser(ctx, userID, p)
}

// ListByStatus returns orders currently in the given status.
func (u *OrderUseCase) ListByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error) {
	if !status.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, status)
	}
	return u.orders.ListByStatus(ctx, status, p)
}

// UpdateStatus moves the order along the lifecycle. Illegal edges, including
// any transition out of a terminal state, are rejected.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrInvalidStatus, status)
	}
	return u.orders.UpdateStatus(ctx, orderID, status)
}

// Cancel cancels the order and restores reserved stock. Delivered orders
// cannot be cancelled.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.Cancel(ctx, orderID)
}
