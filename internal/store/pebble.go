package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"

	"github.com/spuerta10/RapidLogs/internal/cache"
	pebblestore "github.com/spuerta10/RapidLogs/internal/storage/pebble"
	"github.com/spuerta10/RapidLogs/pkg/id"
)

// PebbleStore persists evicted records in a Pebble keyspace.
type PebbleStore struct {
	db *pebblestore.DB

	mu            sync.Mutex
	appended      uint64
	lastEvictedMs int64
}

var _ Store = (*PebbleStore)(nil)

// OpenPebble initializes a PebbleStore over an open DB, loading counters from
// the meta key if present.
func OpenPebble(db *pebblestore.DB) (*PebbleStore, error) {
	s := &PebbleStore{db: db}
	meta, err := db.Get(KeyMeta())
	if err == nil && len(meta) >= 16 {
		s.appended = binary.BigEndian.Uint64(meta[:8])
		s.lastEvictedMs = int64(binary.BigEndian.Uint64(meta[8:16]))
	} else if err != nil && !errors.Is(err, pebblestore.ErrNotFound) {
		return nil, fmt.Errorf("%w: load meta: %w", ErrUnavailable, err)
	}
	return s, nil
}

// Append durably records the batch as one atomic Pebble batch. Transient
// commit failures are wrapped in ErrUnavailable so the caller can retry;
// keys embed the record ID, so retries do not duplicate records.
func (s *PebbleStore) Append(ctx context.Context, batch []cache.Entry, evictedAt time.Time) error {
	if len(batch) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.db.NewBatch()
	defer b.Close()

	evictedAtMs := evictedAt.UnixMilli()
	for _, e := range batch {
		val := EncodeRecord(evictedAtMs, e.Tag, e.Message)
		if err := b.Set(KeyEntry(e.Timestamp, e.ID), val, nil); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	var meta [16]byte
	binary.BigEndian.PutUint64(meta[:8], s.appended+uint64(len(batch)))
	binary.BigEndian.PutUint64(meta[8:16], uint64(evictedAtMs))
	if err := b.Set(KeyMeta(), meta[:], nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if err := s.db.CommitBatch(ctx, b); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s.appended += uint64(len(batch))
	s.lastEvictedMs = evictedAtMs
	return nil
}

// ReadRange returns stored records with start <= Timestamp <= end in
// (timestamp, insertion) order. An inverted range yields an empty result.
func (s *PebbleStore) ReadRange(ctx context.Context, start, end time.Time) ([]StoredEntry, error) {
	if start.After(end) {
		return nil, nil
	}
	low := KeyEntry(start, zeroID)
	// Exclusive upper bound: first possible key one nanosecond past end.
	hi := KeyEntry(end.Add(time.Nanosecond), zeroID)
	return s.scan(ctx, low, hi)
}

// ReadAll returns every stored record in (timestamp, insertion) order.
func (s *PebbleStore) ReadAll(ctx context.Context) ([]StoredEntry, error) {
	prefix := KeyEntryPrefix()
	hi := append(append([]byte(nil), prefix...), 0xFF)
	return s.scan(ctx, prefix, hi)
}

// Stats returns the total number of appended records and the time of the
// last eviction sweep that wrote to the store.
func (s *PebbleStore) Stats() (appended uint64, lastEvictedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastEvictedMs == 0 {
		return s.appended, time.Time{}
	}
	return s.appended, time.UnixMilli(s.lastEvictedMs).UTC()
}

func (s *PebbleStore) scan(ctx context.Context, low, hi []byte) ([]StoredEntry, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: hi})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer iter.Close()

	var out []StoredEntry
	for ok := iter.First(); ok; ok = iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ts, recordID, ok := ParseEntryKey(iter.Key())
		if !ok {
			return nil, fmt.Errorf("%w: malformed key %q", ErrCorrupted, iter.Key())
		}
		dec, ok := DecodeRecord(iter.Value())
		if !ok {
			return nil, fmt.Errorf("%w: record %s", ErrCorrupted, recordID)
		}
		out = append(out, StoredEntry{
			Entry: cache.Entry{
				Timestamp: ts,
				Tag:       dec.Tag,
				Message:   dec.Message,
				ID:        recordID,
			},
			EvictedAt: time.UnixMilli(dec.EvictedAtMs).UTC(),
		})
	}
	return out, nil
}

var zeroID id.ID
