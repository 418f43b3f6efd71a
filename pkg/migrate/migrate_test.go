package migrate_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/velstore/catalog-backend/pkg/migrate"
)

func TestRunRejectsBadArguments(t *testing.T) {
	ctx := context.Background()

	if err := migrate.Run(ctx, nil, migrate.DefaultDir, "up"); err == nil {
		t.Fatal("expected error for nil db")
	}
	if err := migrate.Run(ctx, &sql.DB{}, "", "up"); err == nil {
		t.Fatal("expected error for empty dir")
	}

	err := migrate.Run(ctx, &sql.DB{}, migrate.DefaultDir, "redo")
	if err == nil || !strings.Contains(err.Error(), "unsupported migration command") {
		t.Fatalf("expected unsupported command error, got %v", err)
	}
}

func TestMigrateToVersionRejectsBadVersion(t *testing.T) {
	ctx := context.Background()

	if err := migrate.MigrateToVersion(ctx, nil, migrate.DefaultDir, "20250812094500"); err == nil {
		t.Fatal("expected error for nil db")
	}

	err := migrate.MigrateToVersion(ctx, &sql.DB{}, migrate.DefaultDir, "not-a-version")
	if err == nil || !strings.Contains(err.Error(), "invalid version") {
		t.Fatalf("expected invalid version error, got %v", err)
	}
}
