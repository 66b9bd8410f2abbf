package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus describes catalog availability.
type ProductStatus string

const (
	ProductStatusAvailable    ProductStatus = "AVAILABLE"
	ProductStatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	ProductStatusDiscontinued ProductStatus = "DISCONTINUED"
)

// Valid reports whether the status is one of the known values.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusOutOfStock, ProductStatusDiscontinued:
		return true
	}
	return false
}

// Product represents a catalog item with live stock count.
// StockQuantity never goes below zero; the storage layer decrements it
// with a conditional update.
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Status        ProductStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
