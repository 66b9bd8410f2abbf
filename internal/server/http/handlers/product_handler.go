package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/server/http/dto"
)

const defaultLowStockThreshold = 10

// ProductHandler manages catalog endpoints.
type ProductHandler struct {
	facade ProductFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade ProductFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	p := pagination(c)
	products, total, err := h.facade.Products(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Paged("products retrieved", dto.NewProductResponses(products), p, total))
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("product retrieved", dto.NewProductResponse(product)))
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	product, err := h.facade.CreateProduct(c.Request.Context(), req.Model())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.OK("product created", dto.NewProductResponse(product)))
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	product, err := h.facade.UpdateProduct(c.Request.Context(), id, req.Model())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("product updated", dto.NewProductResponse(product)))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteProduct(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("product deleted", nil))
}

// Search handles GET /api/products/search?name=.
func (h *ProductHandler) Search(c *gin.Context) {
	p := pagination(c)
	products, total, err := h.facade.SearchProducts(c.Request.Context(), c.Query("name"), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Paged("products retrieved", dto.NewProductResponses(products), p, total))
}

// PriceRange handles GET /api/products/price-range?minPrice=&maxPrice=.
func (h *ProductHandler) PriceRange(c *gin.Context) {
	min, err := decimal.NewFromString(c.Query("minPrice"))
	if err != nil {
		writeErrorStatus(c, http.StatusBadRequest, "invalid minPrice")
		return
	}
	max, err := decimal.NewFromString(c.Query("maxPrice"))
	if err != nil {
		writeErrorStatus(c, http.StatusBadRequest, "invalid maxPrice")
		return
	}
	p := pagination(c)
	products, total, err := h.facade.ProductsByPriceRange(c.Request.Context(), min, max, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Paged("products retrieved", dto.NewProductResponses(products), p, total))
}

// LowStock handles GET /api/products/low-stock?threshold=.
func (h *ProductHandler) LowStock(c *gin.Context) {
	threshold := defaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeErrorStatus(c, http.StatusBadRequest, "invalid threshold")
			return
		}
		threshold = parsed
	}
	products, err := h.facade.LowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK("products retrieved", dto.NewProductResponses(products)))
}
