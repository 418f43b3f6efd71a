package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velstore/catalog-backend/pkg/db/models"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/logger"
)

type stubStore struct {
	items      map[int64]*models.Item
	categories map[string]*models.Category
	schemas    []models.AttributeSchema

	nextItemID   int64
	nextSchemaID int64

	lastFilter ListFilter
	listResult []models.Item
}

func newStubStore() *stubStore {
	return &stubStore{
		items:      map[int64]*models.Item{},
		categories: map[string]*models.Category{},
	}
}

func (s *stubStore) FindItemByID(_ context.Context, id int64) (*models.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeItemNotFound, "item not found")
	}
	return item, nil
}

func (s *stubStore) InsertItem(_ context.Context, item *models.Item) (int64, error) {
	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ID] = item
	return item.ID, nil
}

func (s *stubStore) UpdateItem(_ context.Context, item *models.Item) error {
	if _, ok := s.items[item.ID]; !ok {
		return pkgerrors.New(pkgerrors.CodeItemNotFound, "item not found")
	}
	s.items[item.ID] = item
	return nil
}

func (s *stubStore) DeleteItem(_ context.Context, id int64) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *stubStore) ListItems(_ context.Context, filter ListFilter) ([]models.Item, error) {
	s.lastFilter = filter
	return s.listResult, nil
}

func (s *stubStore) FindCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	return s.categories[slug], nil
}

func (s *stubStore) ListCategories(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, category := range s.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (s *stubStore) CreateCategory(_ context.Context, category *models.Category) error {
	if _, ok := s.categories[category.Slug]; ok {
		return pkgerrors.New(pkgerrors.CodeCategoryAlreadyExists, "category already exists")
	}
	s.categories[category.Slug] = category
	return nil
}

func (s *stubStore) ListAttributeSchemas(_ context.Context, category string) ([]models.AttributeSchema, error) {
	if category == "" {
		return s.schemas, nil
	}
	var out []models.AttributeSchema
	for _, schema := range s.schemas {
		if schema.AppliesTo([]string{category}) {
			out = append(out, schema)
		}
	}
	return out, nil
}

func (s *stubStore) InsertAttributeSchema(_ context.Context, schema *models.AttributeSchema) (int64, error) {
	s.nextSchemaID++
	schema.ID = s.nextSchemaID
	s.schemas = append(s.schemas, *schema)
	return schema.ID, nil
}

func (s *stubStore) UpdateAttributeSchema(_ context.Context, schema *models.AttributeSchema) error {
	for i := range s.schemas {
		if s.schemas[i].ID == schema.ID {
			s.schemas[i] = *schema
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "attribute schema not found")
}

type stubIndexer struct {
	indexed map[int64]string
	removed []int64
	fail    error
}

func newStubIndexer() *stubIndexer {
	return &stubIndexer{indexed: map[int64]string{}}
}

func (s *stubIndexer) Index(_ context.Context, id int64, title string) error {
	if s.fail != nil {
		return s.fail
	}
	s.indexed[id] = title
	return nil
}

func (s *stubIndexer) Remove(_ context.Context, id int64) error {
	if s.fail != nil {
		return s.fail
	}
	s.removed = append(s.removed, id)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "catalog-test",
		Level:       zerolog.Disabled,
		Output:      io.Discard,
	})
}

func newTestService(t *testing.T, store *stubStore, idx *stubIndexer) Service {
	t.Helper()
	svc, err := NewService(store, idx, testLogger())
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, newStubIndexer(), testLogger())
	assert.Error(t, err)

	_, err = NewService(newStubStore(), nil, testLogger())
	assert.Error(t, err)

	_, err = NewService(newStubStore(), newStubIndexer(), nil)
	assert.Error(t, err)
}

func TestSaveItemRequiresTitle(t *testing.T) {
	svc := newTestService(t, newStubStore(), newStubIndexer())

	_, err := svc.SaveItem(context.Background(), SaveItemInput{Title: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNoTitleForItem, pkgerrors.CodeOf(err))
}

func TestSaveItemCreatesAndIndexes(t *testing.T) {
	store := newStubStore()
	idx := newStubIndexer()
	svc := newTestService(t, store, idx)

	id, err := svc.SaveItem(context.Background(), SaveItemInput{
		Title:      "Wool sweater",
		Categories: []string{"Apparel"},
		Cost:       4500,
		Discount:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	saved := store.items[1]
	require.NotNil(t, saved)
	assert.Equal(t, "Wool sweater", saved.Title)
	assert.Equal(t, 4050, saved.CostWithDiscount())
	assert.Equal(t, "Wool sweater", idx.indexed[1])
}

func TestSaveItemFiltersInapplicableAttributes(t *testing.T) {
	store := newStubStore()
	store.schemas = []models.AttributeSchema{
		{ID: 1, Name: "size", Categories: []string{"Apparel"}, Options: []string{"S", "M"}},
		{ID: 2, Name: "wattage", Categories: []string{"Electronics"}},
	}
	svc := newTestService(t, store, newStubIndexer())

	id, err := svc.SaveItem(context.Background(), SaveItemInput{
		Title:      "Wool sweater",
		Categories: []string{"Apparel"},
		Attributes: []models.AttributeValue{
			{SchemaID: 1, Value: "M"},
			{SchemaID: 2, Value: "60W"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.AttributeValue{{SchemaID: 1, Value: "M"}}, store.items[id].Attributes)
}

func TestSaveItemRejectsInvalidAttributeValue(t *testing.T) {
	store := newStubStore()
	store.schemas = []models.AttributeSchema{
		{ID: 1, Name: "size", Categories: []string{"Apparel"}, Options: []string{"S", "M"}},
	}
	svc := newTestService(t, store, newStubIndexer())

	_, err := svc.SaveItem(context.Background(), SaveItemInput{
		Title:      "Wool sweater",
		Categories: []string{"Apparel"},
		Attributes: []models.AttributeValue{{SchemaID: 1, Value: "XXL"}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeIncorrectValueForAttribute, pkgerrors.CodeOf(err))
	assert.Empty(t, store.items)
}

func TestSaveItemIndexFailureDoesNotFailSave(t *testing.T) {
	store := newStubStore()
	idx := newStubIndexer()
	idx.fail = assert.AnError
	svc := newTestService(t, store, idx)

	id, err := svc.SaveItem(context.Background(), SaveItemInput{Title: "Lamp"})
	require.NoError(t, err)
	assert.NotNil(t, store.items[id])
}

func TestSaveItemUpdatesExisting(t *testing.T) {
	store := newStubStore()
	store.nextItemID = 1
	store.items[1] = &models.Item{ID: 1, Title: "Old title"}
	svc := newTestService(t, store, newStubIndexer())

	id, err := svc.SaveItem(context.Background(), SaveItemInput{ID: 1, Title: "New title"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "New title", store.items[1].Title)
}

func TestDeleteItemRemovesFromIndex(t *testing.T) {
	store := newStubStore()
	store.nextItemID = 1
	store.items[1] = &models.Item{ID: 1, Title: "Lamp"}
	idx := newStubIndexer()
	svc := newTestService(t, store, idx)

	removed, err := svc.DeleteItem(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []int64{1}, idx.removed)

	removed, err = svc.DeleteItem(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, idx.removed, 1)
}

func TestListItemsResolvesSlug(t *testing.T) {
	store := newStubStore()
	store.categories["home-appliances"] = &models.Category{Slug: "home-appliances", Name: "Home Appliances"}
	svc := newTestService(t, store, newStubIndexer())

	_, err := svc.ListItems(context.Background(), ListItemsInput{Slug: "home-appliances"})
	require.NoError(t, err)
	assert.Equal(t, "Home Appliances", store.lastFilter.Category)
}

func TestListItemsUnresolvableSlugDropsFilter(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, newStubIndexer())

	_, err := svc.ListItems(context.Background(), ListItemsInput{Slug: "nope"})
	require.NoError(t, err)
	assert.Empty(t, store.lastFilter.Category)
}

func TestListItemsExplicitCategoryWinsOverSlug(t *testing.T) {
	store := newStubStore()
	store.categories["apparel"] = &models.Category{Slug: "apparel", Name: "Apparel"}
	svc := newTestService(t, store, newStubIndexer())

	_, err := svc.ListItems(context.Background(), ListItemsInput{Category: "Electronics", Slug: "apparel"})
	require.NoError(t, err)
	assert.Equal(t, "Electronics", store.lastFilter.Category)
}

func TestGetCategory(t *testing.T) {
	store := newStubStore()
	store.categories["apparel"] = &models.Category{Slug: "apparel", Name: "Apparel"}
	svc := newTestService(t, store, newStubIndexer())

	category, err := svc.GetCategory(context.Background(), "apparel")
	require.NoError(t, err)
	assert.Equal(t, "Apparel", category.Name)

	_, err = svc.GetCategory(context.Background(), "missing")
	assert.Equal(t, pkgerrors.CodeCategoryNotFound, pkgerrors.CodeOf(err))
}

func TestCreateCategory(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, newStubIndexer())

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "  "})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeNoNameForNewCategory, pkgerrors.CodeOf(err))
	})

	t.Run("slug derived from name", func(t *testing.T) {
		category, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Home Appliances"})
		require.NoError(t, err)
		assert.Equal(t, "home-appliances", category.Slug)
		assert.Equal(t, "Home Appliances", category.Name)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "Home appliances"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeCategoryAlreadyExists, pkgerrors.CodeOf(err))
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "home-appliances", Slugify("Home Appliances"))
	assert.Equal(t, "tv-audio", Slugify("TV & Audio"))
	assert.Equal(t, "books", Slugify("  Books  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestSaveAttribute(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store, newStubIndexer())

	_, err := svc.SaveAttribute(context.Background(), SaveAttributeInput{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	id, err := svc.SaveAttribute(context.Background(), SaveAttributeInput{
		Name:    "size",
		Options: []string{"S", "M", "L"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = svc.SaveAttribute(context.Background(), SaveAttributeInput{
		ID:      1,
		Name:    "size",
		Options: []string{"S", "M", "L", "XL"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, 4, len(store.schemas[0].Options))
}
