package repository

import (
	"context"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// OrderRepository describes persistence operations for orders.
//
// Create, UpdateStatus and Cancel are transactional: each either commits the
// whole mutation including its stock adjustments or none of it.
type OrderRepository interface {
	Create(ctx context.Context, userID int64, items []model.NewOrderItem, status model.OrderStatus) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	List(ctx context.Context, p model.Pagination) ([]model.Order, int64, error)
	ListByUser(ctx context.Context, userID int64, p model.Pagination) ([]model.Order, int64, error)
	ListByStatus(ctx context.Context, status model.OrderStatus, p model.Pagination) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error)
	Cancel(ctx context.Context, orderID int64) (*model.Order, error)
}
