package models

import "time"

// Delivery: an outbound order that consumes stock. Creating a delivery debits
// each referenced product, deleting it credits the quantities back.
type Delivery struct {
	ID              uint      `gorm:"primaryKey"`
	OrderID         int       `gorm:"not null"`
	CustomerName    string    `gorm:"size:255;not null"`
	DeliveryAddress string    `gorm:"size:255;not null"`
	DeliveryDate    time.Time `gorm:"not null"`
	Status          string    `gorm:"size:50;not null"`
	DeliveryType    string    `gorm:"size:50;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []DeliveryItem `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// DeliveryItem: one product line on a delivery, owned by the delivery.
type DeliveryItem struct {
	ID         uint `gorm:"primaryKey"`
	DeliveryID uint `gorm:"index;not null"`
	ProductID  uint `gorm:"index;not null"`
	Product    Product
	Quantity   int `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
