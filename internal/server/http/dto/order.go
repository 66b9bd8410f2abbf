package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest is the payload for placing an order.
type CreateOrderRequest struct {
	UserID int64              `json:"userId" binding:"required"`
	Items  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Status string             `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// NewItems converts requested lines into domain form.
func (r CreateOrderRequest) NewItems() []model.NewOrderItem {
	items := make([]model.NewOrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.NewOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

// OrderItemResponse is one line of a placed order.
type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the outward representation of an order.
type OrderResponse struct {
	ID           int64               `json:"id"`
	OrderNumber  string              `json:"orderNumber"`
	UserID       int64               `json:"userId"`
	UserFullName string              `json:"userFullName"`
	Items        []OrderItemResponse `json:"items"`
	TotalAmount  decimal.Decimal     `json:"totalAmount"`
	Status       string              `json:"status"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewOrderResponse maps a domain order into its response form.
func NewOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		UserID:       o.UserID,
		UserFullName: o.UserFullName,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// NewOrderResponses maps a slice of orders.
func NewOrderResponses(orders []model.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, NewOrderResponse(&orders[i]))
	}
	return resp
}
