package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velstore/catalog-backend/pkg/db"
	"github.com/velstore/catalog-backend/pkg/db/models"
	"github.com/velstore/catalog-backend/pkg/enums"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/sequence"
)

const containersTable = "containers"

// Repository persists line-item containers and their ordered lines.
type Repository struct {
	conn  *gorm.DB
	alloc *sequence.Allocator
}

func NewRepository(conn *gorm.DB, alloc *sequence.Allocator) (*Repository, error) {
	if conn == nil {
		return nil, errors.New("cart repository requires a database connection")
	}
	if alloc == nil {
		return nil, errors.New("cart repository requires an id allocator")
	}
	return &Repository{conn: conn, alloc: alloc}, nil
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{conn: tx, alloc: r.alloc}
}

// FindByID loads a container with its lines in position order. A missing
// container returns (nil, nil).
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Container, error) {
	var container models.Container
	err := r.conn.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		First(&container, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load container")
	}
	return &container, nil
}

// Create allocates the next container id and persists an empty container.
func (r *Repository) Create(ctx context.Context, kind enums.ContainerKind) (*models.Container, error) {
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown container kind "+kind.String())
	}
	container := &models.Container{Kind: kind}
	_, err := r.alloc.AllocateAndInsert(ctx, r.conn, containersTable, func(conn *gorm.DB, id int64) error {
		container.ID = id
		return conn.WithContext(ctx).Create(container).Error
	})
	if err != nil {
		return nil, err
	}
	return container, nil
}

// Ensure materializes a container under a caller-supplied id, typically one
// handed out earlier when the owning customer was created. A concurrent
// insert of the same id is treated as success.
func (r *Repository) Ensure(ctx context.Context, kind enums.ContainerKind, id int64) (*models.Container, error) {
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	container := &models.Container{ID: id, Kind: kind}
	err = r.conn.WithContext(ctx).Create(container).Error
	if err != nil && db.IsUniqueViolation(err) {
		return r.FindByID(ctx, id)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create container")
	}
	return container, nil
}

// ReplaceLines swaps the container's line set atomically, reassigning
// positions in slice order.
func (r *Repository) ReplaceLines(ctx context.Context, containerID int64, lines []models.ContainerLine) error {
	err := r.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.WithTx(tx).replaceLines(ctx, containerID, lines)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to replace container lines")
	}
	return nil
}

func (r *Repository) replaceLines(ctx context.Context, containerID int64, lines []models.ContainerLine) error {
	if err := r.conn.WithContext(ctx).Delete(&models.ContainerLine{}, "container_id = ?", containerID).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		lines[i].ContainerID = containerID
		lines[i].Position = i
	}
	return r.conn.WithContext(ctx).Create(&lines).Error
}
