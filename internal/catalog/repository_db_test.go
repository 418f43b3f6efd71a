//go:build db
// +build db

package catalog

import (
	"context"
	"os"
	"testing"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/velstore/catalog-backend/pkg/config"
	"github.com/velstore/catalog-backend/pkg/db/models"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/sequence"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CATALOG_DB_DSN")
	if dsn == "" {
		t.Skip("CATALOG_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryItemFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	alloc := sequence.NewAllocator(config.AllocatorConfig{}, nil)
	repo, err := NewRepository(tx, alloc)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	ctx := context.Background()

	first, err := repo.InsertItem(ctx, &models.Item{
		Title:      "Repo Flow Lamp",
		Categories: pq.StringArray{"Repo Flow Lighting"},
		Cost:       1200,
	})
	if err != nil {
		t.Fatalf("insert first item: %v", err)
	}
	second, err := repo.InsertItem(ctx, &models.Item{Title: "Repo Flow Shade", Cost: 300})
	if err != nil {
		t.Fatalf("insert second item: %v", err)
	}
	if second != first+1 {
		t.Fatalf("expected sequential ids, got %d then %d", first, second)
	}

	got, err := repo.FindItemByID(ctx, first)
	if err != nil {
		t.Fatalf("find item: %v", err)
	}
	if got.Title != "Repo Flow Lamp" {
		t.Fatalf("unexpected title %q", got.Title)
	}

	listed, err := repo.ListItems(ctx, ListFilter{Category: "Repo Flow Lighting"})
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != first {
		t.Fatalf("category filter returned %d rows", len(listed))
	}

	removed, err := repo.DeleteItem(ctx, first)
	if err != nil || !removed {
		t.Fatalf("delete item: removed=%v err=%v", removed, err)
	}
	if _, err := repo.FindItemByID(ctx, first); pkgerrors.CodeOf(err) != pkgerrors.CodeItemNotFound {
		t.Fatalf("expected ITEM_NOT_FOUND after delete, got %v", err)
	}
}
