package models

import "time"

// Category groups items. The slug is the natural key and serves as the
// primary key, which is what makes duplicate-slug creation a unique violation.
type Category struct {
	Slug      string    `gorm:"column:slug;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Image     *string   `gorm:"column:image"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements gorm's table naming override.
func (Category) TableName() string {
	return "categories"
}
