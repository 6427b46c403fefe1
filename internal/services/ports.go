package services

import (
	"context"

	"cantiere/internal/core"
)

// SnapshotReader supplies one consistent point-in-time read of the budget
// graph. Implementations must guarantee that all rows in a snapshot come
// from the same transaction (or equivalent), so that source totals and
// category totals never disagree under concurrent writes.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*core.Snapshot, error)
}
