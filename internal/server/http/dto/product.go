package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// ProductRequest is the payload for creating or replacing a product.
type ProductRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Description   string          `json:"description" binding:"omitempty,max=500"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	StockQuantity int             `json:"stockQuantity" binding:"min=0"`
	Status        string          `json:"status" binding:"omitempty,oneof=AVAILABLE OUT_OF_STOCK DISCONTINUED"`
}

// Model converts the request into a domain product.
func (r ProductRequest) Model() *model.Product {
	return &model.Product{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Status:        model.ProductStatus(r.Status),
	}
}

// ProductResponse is the outward representation of a product.
type ProductResponse struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewProductResponse maps a domain product into its response form.
func NewProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// NewProductResponses maps a slice of products.
func NewProductResponses(products []model.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, NewProductResponse(&products[i]))
	}
	return resp
}
