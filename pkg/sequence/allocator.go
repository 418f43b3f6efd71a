package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"

	"github.com/velstore/catalog-backend/pkg/config"
	"github.com/velstore/catalog-backend/pkg/db"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
	"github.com/velstore/catalog-backend/pkg/metrics"
)

// Allocator assigns monotonically increasing integer identifiers to rows in a
// keyed table. It reads the current maximum, inserts with max+1 and retries on
// a duplicate-key rejection. The read-then-insert race window is resolved by
// the retry, not by locking; the store rejecting duplicate primary keys
// atomically is the only correctness requirement. Identifiers are not gap-free
// once rows are deleted.
type Allocator struct {
	maxRetries uint64
	baseDelay  time.Duration
	metrics    *metrics.AllocatorMetrics
}

// NewAllocator builds an allocator with a bounded retry budget.
func NewAllocator(cfg config.AllocatorConfig, m *metrics.AllocatorMetrics) *Allocator {
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 16
	}
	baseDelay := cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = 5 * time.Millisecond
	}
	return &Allocator{
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		metrics:    m,
	}
}

// AllocateAndInsert determines the next identifier for the table and invokes
// insert with it, retrying with exponential backoff while the insert fails on
// a concurrently claimed key. A retry budget caps the loop; when it runs out
// the caller gets an IDENTIFIER_EXHAUSTED error instead of stalling forever.
func (a *Allocator) AllocateAndInsert(ctx context.Context, conn *gorm.DB, table string, insert func(conn *gorm.DB, id int64) error) (int64, error) {
	if conn == nil {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "database connection required")
	}
	if insert == nil {
		return 0, pkgerrors.New(pkgerrors.CodeInternal, "insert callback required")
	}

	var allocated int64
	backoff := retry.WithMaxRetries(a.maxRetries, retry.NewExponential(a.baseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		id, err := a.nextID(ctx, conn, table)
		if err != nil {
			return err
		}
		if err := insert(conn, id); err != nil {
			if db.IsUniqueViolation(err) {
				a.metrics.IncCollision(table)
				return retry.RetryableError(err)
			}
			return err
		}
		allocated = id
		return nil
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			a.metrics.IncExhausted(table)
			return 0, pkgerrors.Wrap(pkgerrors.CodeIdentifierExhausted, err, fmt.Sprintf("allocate identifier in %s", table))
		}
		return 0, err
	}
	return allocated, nil
}

func (a *Allocator) nextID(ctx context.Context, conn *gorm.DB, table string) (int64, error) {
	var max int64
	err := conn.WithContext(ctx).
		Table(table).
		Select("COALESCE(MAX(id), 0)").
		Scan(&max).
		Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read max identifier in %s", table))
	}
	return max + 1, nil
}
