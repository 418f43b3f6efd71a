package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velstore/catalog-backend/pkg/enums"
)

// Container is the shared line-item collection backing both carts and
// wishlists.
type Container struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement:false"`
	Kind      enums.ContainerKind `gorm:"column:kind;not null;default:'cart'"`
	Lines     []ContainerLine     `gorm:"foreignKey:ContainerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's table naming override.
func (Container) TableName() string {
	return "containers"
}

// TotalQuantity sums the line quantities.
func (c Container) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Qty
	}
	return total
}

// ContainerLine references a catalog item with a quantity and the title/cost
// snapshot taken when the line was added. Repeated adds of the same item
// produce multiple lines; Position keeps them ordered.
type ContainerLine struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContainerID int64     `gorm:"column:container_id;not null;index:container_lines_container_id_idx"`
	ItemID      int64     `gorm:"column:item_id;not null"`
	Qty         int       `gorm:"column:qty;not null"`
	Title       string    `gorm:"column:title;not null"`
	CostCents   int       `gorm:"column:cost_cents;not null"`
	Position    int       `gorm:"column:position;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements gorm's table naming override.
func (ContainerLine) TableName() string {
	return "container_lines"
}
