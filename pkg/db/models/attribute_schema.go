package models

import (
	"time"

	"github.com/lib/pq"
)

// AttributeSchema is a typed constraint definition for item attributes. A
// schema with an empty Categories scope applies to every category.
type AttributeSchema struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name       string         `gorm:"column:name;not null"`
	Regex      *string        `gorm:"column:regex"`
	Mask       *string        `gorm:"column:mask"`
	Options    pq.StringArray `gorm:"column:options;type:text[]"`
	Categories pq.StringArray `gorm:"column:categories;type:text[]"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's table naming override.
func (AttributeSchema) TableName() string {
	return "attribute_schemas"
}

// AppliesTo reports whether the schema is applicable to any of the given
// categories. Schemas without a category scope apply globally.
func (s AttributeSchema) AppliesTo(categories []string) bool {
	if len(s.Categories) == 0 {
		return true
	}
	for _, scoped := range s.Categories {
		for _, category := range categories {
			if scoped == category {
				return true
			}
		}
	}
	return false
}
