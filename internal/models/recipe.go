package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe: a bill of materials that combines stock lines into a manufactured
// product. TotalPrice is the add-time estimate; list/use paths revalue
// ingredients at current stock prices.
type Recipe struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	ProductName string          `gorm:"size:255;not null"`
	Type        string          `gorm:"size:20;not null"` // "fixed" | "variable"
	Category    string          `gorm:"size:50"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient: quantity of one stock line needed per produced unit.
// PriceAtAdd freezes the unit price seen when the recipe was created; it only
// feeds the stored estimate, never the cost of an actual production run.
type RecipeIngredient struct {
	ID         uint `gorm:"primaryKey"`
	RecipeID   uint `gorm:"index;not null"`
	ProductID  uint `gorm:"index;not null"`
	Product    Product
	Quantity   int             `gorm:"not null"`
	PriceAtAdd decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
