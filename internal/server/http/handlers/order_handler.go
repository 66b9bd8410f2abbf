package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/shopmart/internal/domain/model"
	"github.com/polkiloo/shopmart/internal/server/http/dto"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	p := pagination(c)
	orders, total, err := h.facade.Orders(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Paged("orders retrieved", dto.NewOrderResponses(orders), p, total))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("order retrieved", dto.NewOrderResponse(order)))
}

// GetByNumber handles GET /api/orders/order-number/:orderNumber.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.facade.OrderByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("order retrieved", dto.NewOrderResponse(order)))
}

// ListByUser handles GET /api/orders/user/:userId.
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	p := pagination(c)
	orders, total, err := h.facade.OrdersByUser(c.Request.Context(), userID, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Paged("orders retrieved", dto.NewOrderResponses(orders), p, total))
}

// ListByStatus handles GET /api/orders/status/:status.
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	p := pagination(c)
	status := model.OrderStatus(c.Param("status"))
	orders, total, err := h.facade.OrdersByStatus(c.Request.Context(), status, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Paged("orders retrieved", dto.NewOrderResponses(orders), p, total))
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	order, err := h.facade.PlaceOrder(c.Request.Context(), req.UserID, req.NewItems(), model.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK("order created", dto.NewOrderResponse(order)))
}

// UpdateStatus handles PUT /api/orders/:id/status?status=.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	status := c.Query("status")
	if status == "" {
		writeErrorStatus(c, http.StatusBadRequest, "status query parameter is required")
		return
	}
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), id, model.OrderStatus(status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("order status updated", dto.NewOrderResponse(order)))
}

// Cancel handles DELETE /api/orders/:id.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.CancelOrder(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("order cancelled", dto.NewOrderResponse(order)))
}
