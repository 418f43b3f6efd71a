package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/velstore/catalog-backend/pkg/db"
	"github.com/velstore/catalog-backend/pkg/db/models"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/sequence"
)

const (
	itemsTable = "items"
	attrsTable = "attribute_schemas"

	// DefaultListLimit applies when a listing request carries no limit.
	DefaultListLimit = 10
)

// itemSummaryColumns is the projection used by listings: everything except
// the body, which can be arbitrarily large.
var itemSummaryColumns = []string{
	"id", "article", "title", "short", "imgs", "tags", "categories",
	"cost", "discount", "quantity", "attributes", "created_at", "updated_at",
}

// ListFilter narrows an item listing.
type ListFilter struct {
	Category  string
	Tag       string
	Limit     int
	ExceptIDs []int64
}

// Repository persists catalog items, categories and attribute schemas.
type Repository struct {
	conn  *gorm.DB
	alloc *sequence.Allocator
}

func NewRepository(conn *gorm.DB, alloc *sequence.Allocator) (*Repository, error) {
	if conn == nil {
		return nil, errors.New("catalog repository requires a database connection")
	}
	if alloc == nil {
		return nil, errors.New("catalog repository requires an id allocator")
	}
	return &Repository{conn: conn, alloc: alloc}, nil
}

func (r *Repository) FindItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := r.conn.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeItemNotFound, "item not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load item")
	}
	return &item, nil
}

// InsertItem allocates the next item id and persists the record under it.
func (r *Repository) InsertItem(ctx context.Context, item *models.Item) (int64, error) {
	return r.alloc.AllocateAndInsert(ctx, r.conn, itemsTable, func(conn *gorm.DB, id int64) error {
		item.ID = id
		return conn.WithContext(ctx).Create(item).Error
	})
}

func (r *Repository) UpdateItem(ctx context.Context, item *models.Item) error {
	res := r.conn.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Select("article", "title", "short", "body", "imgs", "tags", "categories",
			"cost", "discount", "quantity", "attributes").
		Updates(item)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "failed to update item")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeItemNotFound, "item not found")
	}
	return nil
}

// DeleteItem removes the item and reports whether a row existed.
func (r *Repository) DeleteItem(ctx context.Context, id int64) (bool, error) {
	res := r.conn.WithContext(ctx).Delete(&models.Item{}, "id = ?", id)
	if res.Error != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "failed to delete item")
	}
	return res.RowsAffected > 0, nil
}

// ListItems returns newest-first item summaries (body omitted) matching the
// filter. A zero limit falls back to DefaultListLimit.
func (r *Repository) ListItems(ctx context.Context, filter ListFilter) ([]models.Item, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	q := r.conn.WithContext(ctx).
		Model(&models.Item{}).
		Select(itemSummaryColumns).
		Order("id DESC").
		Limit(limit)
	if filter.Category != "" {
		q = q.Where("? = ANY(categories)", filter.Category)
	}
	if filter.Tag != "" {
		q = q.Where("? = ANY(tags)", filter.Tag)
	}
	if len(filter.ExceptIDs) > 0 {
		q = q.Where("id NOT IN ?", filter.ExceptIDs)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list items")
	}
	return items, nil
}

// WalkItems streams all items in id order through fn, batch by batch. Used by
// the search reindexer.
func (r *Repository) WalkItems(ctx context.Context, batchSize int, fn func(items []models.Item) error) error {
	var batch []models.Item
	err := r.conn.WithContext(ctx).
		Model(&models.Item{}).
		Select("id", "title").
		Order("id ASC").
		FindInBatches(&batch, batchSize, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to walk items")
	}
	return nil
}

func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.conn.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load category")
	}
	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.conn.WithContext(ctx).Order("slug ASC").Find(&categories).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list categories")
	}
	return categories, nil
}

// CreateCategory inserts a category keyed by its slug. A duplicate slug maps
// to CategoryAlreadyExists.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	err := r.conn.WithContext(ctx).Create(category).Error
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		return pkgerrors.New(pkgerrors.CodeCategoryAlreadyExists, "category already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create category")
}

// ListAttributeSchemas returns every schema, or only those applicable to the
// given category when one is passed.
func (r *Repository) ListAttributeSchemas(ctx context.Context, category string) ([]models.AttributeSchema, error) {
	var schemas []models.AttributeSchema
	if err := r.conn.WithContext(ctx).Order("id ASC").Find(&schemas).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list attribute schemas")
	}
	if category == "" {
		return schemas, nil
	}
	applicable := schemas[:0]
	for _, schema := range schemas {
		if schema.AppliesTo([]string{category}) {
			applicable = append(applicable, schema)
		}
	}
	return applicable, nil
}

// InsertAttributeSchema allocates the next schema id and persists the record.
func (r *Repository) InsertAttributeSchema(ctx context.Context, schema *models.AttributeSchema) (int64, error) {
	return r.alloc.AllocateAndInsert(ctx, r.conn, attrsTable, func(conn *gorm.DB, id int64) error {
		schema.ID = id
		return conn.WithContext(ctx).Create(schema).Error
	})
}

func (r *Repository) UpdateAttributeSchema(ctx context.Context, schema *models.AttributeSchema) error {
	res := r.conn.WithContext(ctx).
		Model(&models.AttributeSchema{}).
		Where("id = ?", schema.ID).
		Select("name", "regex", "mask", "options", "categories").
		Updates(schema)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "failed to update attribute schema")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "attribute schema not found")
	}
	return nil
}
