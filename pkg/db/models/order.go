package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/velstore/catalog-backend/pkg/enums"
)

// Order is a snapshot of a customer's cart at creation time. Line costs are
// locked in and never repriced.
type Order struct {
	ID              int64             `gorm:"column:id;primaryKey;autoIncrement:false"`
	CustomerID      int64             `gorm:"column:customer_id;not null;index:orders_customer_id_idx"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'created'"`
	Quantity        int               `gorm:"column:quantity;not null;default:0"`
	TotalCents      int               `gorm:"column:total_cents;not null;default:0"`
	PaymentReceived *int              `gorm:"column:payment_received_cents"`
	Lines           []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	CompletedAt     *time.Time        `gorm:"column:completed_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName implements gorm's table naming override.
func (Order) TableName() string {
	return "orders"
}

// OrderLine is an immutable snapshot of a cart line at order creation.
type OrderLine struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   int64     `gorm:"column:order_id;not null;index:order_lines_order_id_idx"`
	ItemID    int64     `gorm:"column:item_id;not null"`
	Qty       int       `gorm:"column:qty;not null"`
	Title     string    `gorm:"column:title;not null"`
	CostCents int       `gorm:"column:cost_cents;not null"`
	Position  int       `gorm:"column:position;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName implements gorm's table naming override.
func (OrderLine) TableName() string {
	return "order_lines"
}
