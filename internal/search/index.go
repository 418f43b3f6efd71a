package search

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

// Hit is a search result: the item id plus its indexed title.
type Hit struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Index stores item titles and answers substring queries over them.
type Index interface {
	Index(ctx context.Context, id int64, title string) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

// hashStore is the Redis surface the index needs: one hash mapping item id to
// title.
type hashStore interface {
	HSet(ctx context.Context, key string, values ...any) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SearchIndexKey() string
}

// RedisIndex keeps the whole title corpus in a single Redis hash and scans it
// on every query. The corpus is small enough that a scan beats maintaining
// per-term sets.
type RedisIndex struct {
	store hashStore
}

func NewRedisIndex(store hashStore) (*RedisIndex, error) {
	if store == nil {
		return nil, errors.New("redis index requires a hash store")
	}
	return &RedisIndex{store: store}, nil
}

func (r *RedisIndex) Index(ctx context.Context, id int64, title string) error {
	err := r.store.HSet(ctx, r.store.SearchIndexKey(), strconv.FormatInt(id, 10), title)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to index title")
	}
	return nil
}

func (r *RedisIndex) Remove(ctx context.Context, id int64) error {
	err := r.store.HDel(ctx, r.store.SearchIndexKey(), strconv.FormatInt(id, 10))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to remove title from index")
	}
	return nil
}

// Search returns items whose title contains any of the whitespace-separated
// query terms, case-insensitively, newest ids first. A blank query matches
// nothing.
func (r *RedisIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	titles, err := r.store.HGetAll(ctx, r.store.SearchIndexKey())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read search index")
	}

	hits := make([]Hit, 0, len(titles))
	for field, title := range titles {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		lowered := strings.ToLower(title)
		for _, term := range terms {
			if strings.Contains(lowered, term) {
				hits = append(hits, Hit{ID: id, Title: title})
				break
			}
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].ID > hits[j].ID })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
