package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/sequence"
)

const ordersTable = "orders"

// Repository persists orders and their immutable line snapshots.
type Repository struct {
	conn  *gorm.DB
	alloc *sequence.Allocator
}

func NewRepository(conn *gorm.DB, alloc *sequence.Allocator) (*Repository, error) {
	if conn == nil {
		return nil, errors.New("orders repository requires a database connection")
	}
	if alloc == nil {
		return nil, errors.New("orders repository requires an id allocator")
	}
	return &Repository{conn: conn, alloc: alloc}, nil
}

// Insert allocates the next order id and persists the order together with its
// lines in one transaction.
func (r *Repository) Insert(ctx context.Context, order *models.Order) (int64, error) {
	return r.alloc.AllocateAndInsert(ctx, r.conn, ordersTable, func(conn *gorm.DB, id int64) error {
		order.ID = id
		for i := range order.Lines {
			if order.Lines[i].ID == uuid.Nil {
				order.Lines[i].ID = uuid.New()
			}
			order.Lines[i].OrderID = id
			order.Lines[i].Position = i
		}
		return conn.WithContext(ctx).Create(order).Error
	})
}

// FindByID loads an order with its lines in position order.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := r.conn.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load order")
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders newest first, lines included.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error) {
	var orders []models.Order
	err := r.conn.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list orders")
	}
	return orders, nil
}

// UpdateStatus moves an order between states, guarded by the expected current
// state so concurrent transitions cannot skip a step.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to enums.OrderStatus, completedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": to}
	if completedAt != nil {
		updates["completed_at"] = completedAt
	}
	res := r.conn.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "failed to update order status")
	}
	return res.RowsAffected > 0, nil
}

// SetPayment records the received payment amount.
func (r *Repository) SetPayment(ctx context.Context, id int64, amountCents int) error {
	res := r.conn.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_received_cents", amountCents)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "failed to record payment")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeOrderNotFound, "order not found")
	}
	return nil
}
