package models

import (
	"time"

	"github.com/lib/pq"
)

// AttributeValue is an attribute bound to an item: a schema reference plus the
// validated value.
type AttributeValue struct {
	SchemaID int64  `json:"schema_id"`
	Value    string `json:"value"`
}

// Item is a catalog product. ID is zero until the allocator assigns one on the
// first save.
type Item struct {
	ID         int64            `gorm:"column:id;primaryKey;autoIncrement:false"`
	Article    string           `gorm:"column:article"`
	Title      string           `gorm:"column:title;not null"`
	Short      string           `gorm:"column:short"`
	Body       string           `gorm:"column:body"`
	Imgs       pq.StringArray   `gorm:"column:imgs;type:text[]"`
	Tags       pq.StringArray   `gorm:"column:tags;type:text[]"`
	Categories pq.StringArray   `gorm:"column:categories;type:text[]"`
	Cost       int              `gorm:"column:cost;not null;default:0"`
	Discount   int              `gorm:"column:discount;not null;default:0"`
	Quantity   int              `gorm:"column:quantity;not null;default:0"`
	Attributes []AttributeValue `gorm:"column:attributes;type:jsonb;serializer:json"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's table naming override.
func (Item) TableName() string {
	return "items"
}

// CostWithDiscount returns the cost in minor units after applying the
// percentage discount, flooring the rebate: cost - floor(cost*discount/100).
// A zero discount leaves the cost untouched.
func (i Item) CostWithDiscount() int {
	if i.Discount == 0 {
		return i.Cost
	}
	return i.Cost - i.Cost*i.Discount/100
}

// PrimaryImage returns the first image reference, if any.
func (i Item) PrimaryImage() string {
	if len(i.Imgs) == 0 {
		return ""
	}
	return i.Imgs[0]
}
