package models

import "time"

// Customer links an externally assigned identifier to its cart and wishlist
// containers. The ID is supplied by the caller, not the allocator.
type Customer struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name       string    `gorm:"column:name"`
	CartID     int64     `gorm:"column:cart_id;not null"`
	WishlistID int64     `gorm:"column:wishlist_id;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's table naming override.
func (Customer) TableName() string {
	return "customers"
}
