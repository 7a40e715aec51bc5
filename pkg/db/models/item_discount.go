package models

import "time"

// ItemDiscount is the remote discount state of a catalog item.
// DiscountedPrice is NULL whenever Discount is zero.
type ItemDiscount struct {
	ItemID          string    `gorm:"column:item_id;primaryKey"`
	Discount        int64     `gorm:"column:discount;not null;default:0"`
	DiscountedPrice *int64    `gorm:"column:discounted_price"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}
