package search

import (
	"context"
	"errors"

	"github.com/velstore/catalog-backend/pkg/db/models"
)

// reindexBatchSize bounds how many items are loaded per page while rebuilding
// the index.
const reindexBatchSize = 500

// itemWalker streams the catalog's items for index rebuilds.
type itemWalker interface {
	WalkItems(ctx context.Context, batchSize int, fn func(items []models.Item) error) error
}

// Service answers title searches and rebuilds the index from the catalog.
type Service interface {
	Search(ctx context.Context, query string) ([]Hit, error)
	// Reindex rewrites every item title into the index and returns how
	// many were written. Stale entries for deleted items are not purged;
	// drop the index key first for a clean rebuild.
	Reindex(ctx context.Context) (int, error)
}

type service struct {
	idx     Index
	catalog itemWalker
	maxHits int
}

func NewService(idx Index, catalog itemWalker, maxHits int) (Service, error) {
	if idx == nil {
		return nil, errors.New("search service requires an index")
	}
	if catalog == nil {
		return nil, errors.New("search service requires an item walker")
	}
	if maxHits <= 0 {
		return nil, errors.New("search service requires a positive hit cap")
	}
	return &service{idx: idx, catalog: catalog, maxHits: maxHits}, nil
}

func (s *service) Search(ctx context.Context, query string) ([]Hit, error) {
	return s.idx.Search(ctx, query, s.maxHits)
}

func (s *service) Reindex(ctx context.Context) (int, error) {
	count := 0
	err := s.catalog.WalkItems(ctx, reindexBatchSize, func(items []models.Item) error {
		for _, item := range items {
			if err := s.idx.Index(ctx, item.ID, item.Title); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	return count, nil
}
