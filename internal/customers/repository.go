package customers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/velstore/catalog-backend/pkg/db"
	"github.com/velstore/catalog-backend/pkg/db/models"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

// Repository persists customer records.
type Repository struct {
	conn *gorm.DB
}

func NewRepository(conn *gorm.DB) (*Repository, error) {
	if conn == nil {
		return nil, errors.New("customers repository requires a database connection")
	}
	return &Repository{conn: conn}, nil
}

// FindByID loads a customer. A missing customer returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := r.conn.WithContext(ctx).First(&customer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load customer")
	}
	return &customer, nil
}

// Insert persists a customer under its caller-supplied id. A concurrent
// insert of the same id surfaces as alreadyExists so the caller can re-read.
func (r *Repository) Insert(ctx context.Context, customer *models.Customer) (alreadyExists bool, err error) {
	err = r.conn.WithContext(ctx).Create(customer).Error
	if err == nil {
		return false, nil
	}
	if db.IsUniqueViolation(err) {
		return true, nil
	}
	return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create customer")
}

// UpdateName stores a new display name.
func (r *Repository) UpdateName(ctx context.Context, id int64, name string) error {
	res := r.conn.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("name", name)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "failed to update customer")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeCustomerNotFound, "customer not found")
	}
	return nil
}
