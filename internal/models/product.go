package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusAvailable  ProductStatus = "Available"
	StatusLowStock   ProductStatus = "Low in stock"
	StatusOutOfStock ProductStatus = "Out of stock"
)

// Product: a stock line. A (name, category, supplier) triple identifies one
// line; repeat purchases of the same triple merge into it instead of creating
// a duplicate. TotalAmount and Status are derived from Quantity/UnitPrice and
// must be recomputed on every mutation.
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:100;not null;uniqueIndex:idx_stock_natural_key"`
	Category    string          `gorm:"size:50;not null;uniqueIndex:idx_stock_natural_key"`
	Supplier    string          `gorm:"size:100;not null;uniqueIndex:idx_stock_natural_key"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      ProductStatus   `gorm:"size:50;not null"`
	Image       string          `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Product) TableName() string {
	return "stock"
}
