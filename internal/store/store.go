package store

import (
	"context"
	"errors"
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
)

// Transient vs permanent failure classes. The eviction sweeper is the sole
// retry arbiter; it retries ErrUnavailable and escalates ErrCorrupted.
var (
	// ErrUnavailable wraps transient I/O failures; the operation may succeed
	// on retry.
	ErrUnavailable = errors.New("store unavailable")
	// ErrCorrupted marks data that failed integrity checks; retrying will not
	// help.
	ErrCorrupted = errors.New("store record corrupted")
)

// StoredEntry is a log record at rest, together with the time of the sweep
// that evicted it.
type StoredEntry struct {
	cache.Entry
	EvictedAt time.Time
}

// Store is the durable sink for evicted records.
//
// Append must be atomic per call: partial writes within a batch are never
// observable to readers. ReadRange and ReadAll serve historical lookups for
// the query gateway; the core eviction path never reads.
type Store interface {
	Append(ctx context.Context, batch []cache.Entry, evictedAt time.Time) error
	ReadRange(ctx context.Context, start, end time.Time) ([]StoredEntry, error)
	ReadAll(ctx context.Context) ([]StoredEntry, error)
}
