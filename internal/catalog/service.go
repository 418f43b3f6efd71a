package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/velstore/catalog-backend/pkg/db/models"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/logger"
)

// indexer keeps the title search index in sync with saved items. Index
// maintenance is best effort: failures are logged and never fail the save.
type indexer interface {
	Index(ctx context.Context, id int64, title string) error
	Remove(ctx context.Context, id int64) error
}

// Store is the persistence surface the catalog service needs. *Repository is
// the production implementation.
type Store interface {
	FindItemByID(ctx context.Context, id int64) (*models.Item, error)
	InsertItem(ctx context.Context, item *models.Item) (int64, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) (bool, error)
	ListItems(ctx context.Context, filter ListFilter) ([]models.Item, error)

	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error

	ListAttributeSchemas(ctx context.Context, category string) ([]models.AttributeSchema, error)
	InsertAttributeSchema(ctx context.Context, schema *models.AttributeSchema) (int64, error)
	UpdateAttributeSchema(ctx context.Context, schema *models.AttributeSchema) error
}

// SaveItemInput carries the fields of an item save. A zero ID creates a new
// item, a non-zero ID updates an existing one.
type SaveItemInput struct {
	ID         int64
	Article    string
	Title      string
	Short      string
	Body       string
	Imgs       []string
	Tags       []string
	Categories []string
	Cost       int
	Discount   int
	Quantity   int
	Attributes []models.AttributeValue
}

// ListItemsInput narrows an item listing. Slug, when set, is resolved to the
// category name before filtering; an unresolvable slug drops the filter.
type ListItemsInput struct {
	Category  string
	Slug      string
	Tag       string
	Limit     int
	ExceptIDs []int64
}

type CreateCategoryInput struct {
	Name string
	Slug string
}

// SaveAttributeInput carries the fields of an attribute schema save. A zero
// ID creates a new schema.
type SaveAttributeInput struct {
	ID         int64
	Name       string
	Regex      *string
	Mask       *string
	Options    []string
	Categories []string
}

// Service exposes the catalog operations: items, categories and attribute
// schemas.
type Service interface {
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	SaveItem(ctx context.Context, in SaveItemInput) (int64, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	ListItems(ctx context.Context, in ListItemsInput) ([]models.Item, error)

	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error)

	ListAttributes(ctx context.Context, category string) ([]models.AttributeSchema, error)
	SaveAttribute(ctx context.Context, in SaveAttributeInput) (int64, error)
}

type service struct {
	repo Store
	idx  indexer
	logg *logger.Logger
}

func NewService(repo Store, idx indexer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog service requires a repository")
	}
	if idx == nil {
		return nil, errors.New("catalog service requires a search indexer")
	}
	if logg == nil {
		return nil, errors.New("catalog service requires a logger")
	}
	return &service{repo: repo, idx: idx, logg: logg}, nil
}

func (s *service) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return s.repo.FindItemByID(ctx, id)
}

func (s *service) SaveItem(ctx context.Context, in SaveItemInput) (int64, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeNoTitleForItem, "item title is required")
	}

	schemas, err := s.repo.ListAttributeSchemas(ctx, "")
	if err != nil {
		return 0, err
	}
	attributes, err := FilterApplicable(in.Categories, schemas, in.Attributes)
	if err != nil {
		return 0, err
	}

	item := &models.Item{
		ID:         in.ID,
		Article:    in.Article,
		Title:      in.Title,
		Short:      in.Short,
		Body:       in.Body,
		Imgs:       pq.StringArray(in.Imgs),
		Tags:       pq.StringArray(in.Tags),
		Categories: pq.StringArray(in.Categories),
		Cost:       in.Cost,
		Discount:   in.Discount,
		Quantity:   in.Quantity,
		Attributes: attributes,
	}

	if item.ID == 0 {
		id, err := s.repo.InsertItem(ctx, item)
		if err != nil {
			return 0, err
		}
		item.ID = id
	} else if err := s.repo.UpdateItem(ctx, item); err != nil {
		return 0, err
	}

	if err := s.idx.Index(ctx, item.ID, item.Title); err != nil {
		s.logg.Warn(s.logg.WithItemID(ctx, item.ID), "failed to index item title: "+err.Error())
	}
	return item.ID, nil
}

func (s *service) DeleteItem(ctx context.Context, id int64) (bool, error) {
	removed, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		if err := s.idx.Remove(ctx, id); err != nil {
			s.logg.Warn(s.logg.WithItemID(ctx, id), "failed to remove item from search index: "+err.Error())
		}
	}
	return removed, nil
}

func (s *service) ListItems(ctx context.Context, in ListItemsInput) ([]models.Item, error) {
	category := in.Category
	if category == "" && in.Slug != "" {
		found, err := s.repo.FindCategoryBySlug(ctx, in.Slug)
		if err != nil {
			return nil, err
		}
		if found != nil {
			category = found.Name
		}
	}
	return s.repo.ListItems(ctx, ListFilter{
		Category:  category,
		Tag:       in.Tag,
		Limit:     in.Limit,
		ExceptIDs: in.ExceptIDs,
	})
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) GetCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCategoryNotFound, "category "+slug+" not found")
	}
	return category, nil
}

func (s *service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNoNameForNewCategory, "category name is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category slug could not be derived from the name")
	}

	category := &models.Category{Slug: slug, Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *service) ListAttributes(ctx context.Context, category string) ([]models.AttributeSchema, error) {
	return s.repo.ListAttributeSchemas(ctx, category)
}

func (s *service) SaveAttribute(ctx context.Context, in SaveAttributeInput) (int64, error) {
	if strings.TrimSpace(in.Name) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "attribute name is required")
	}

	schema := &models.AttributeSchema{
		ID:         in.ID,
		Name:       in.Name,
		Regex:      in.Regex,
		Mask:       in.Mask,
		Options:    pq.StringArray(in.Options),
		Categories: pq.StringArray(in.Categories),
	}

	if schema.ID == 0 {
		return s.repo.InsertAttributeSchema(ctx, schema)
	}
	if err := s.repo.UpdateAttributeSchema(ctx, schema); err != nil {
		return 0, err
	}
	return schema.ID, nil
}

// Slugify derives a URL-safe category slug from a display name: lowercase,
// runs of non-alphanumerics collapsed into single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			if b.Len() > 0 {
				pendingHyphen = true
			}
			continue
		}
		if pendingHyphen {
			b.WriteByte('-')
			pendingHyphen = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
