package cache

import (
	"iter"
	"sync"
	"time"

	"github.com/google/btree"
)

const btreeDegree = 16

// TemporalCache is an ordered in-memory container for the live window of log
// records. All methods are safe for concurrent use.
type TemporalCache struct {
	mu   sync.Mutex
	tree *btree.BTreeG[Entry]
}

// New creates an empty TemporalCache.
func New() *TemporalCache {
	return &TemporalCache{tree: btree.NewG(btreeDegree, less)}
}

// Insert adds a record under its (Timestamp, ID) key. It always succeeds;
// records with timestamps already outside the window are accepted and picked
// up by the next sweep.
func (c *TemporalCache) Insert(e Entry) {
	c.mu.Lock()
	c.tree.ReplaceOrInsert(e)
	c.mu.Unlock()
}

// Len returns the number of live records.
func (c *TemporalCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Len()
}

// snapshot returns a copy-on-write clone of the tree. Cloning is O(1); node
// copies are paid lazily by whichever side mutates first.
func (c *TemporalCache) snapshot() *btree.BTreeG[Entry] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Clone()
}

// Query returns all live records with start <= Timestamp <= end, sorted by
// Timestamp then insertion order. The sequence is lazy and restartable: each
// range-over re-scans a fresh snapshot. An inverted range yields an empty
// sequence.
func (c *TemporalCache) Query(start, end time.Time) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if start.After(end) {
			return
		}
		lo := Entry{Timestamp: start}
		hi := Entry{Timestamp: end.Add(time.Nanosecond)}
		c.snapshot().AscendRange(lo, hi, func(e Entry) bool {
			return yield(e)
		})
	}
}

// QueryAll returns every live record in (Timestamp, ID) order.
func (c *TemporalCache) QueryAll() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		c.snapshot().Ascend(func(e Entry) bool {
			return yield(e)
		})
	}
}

// DrainExpired atomically removes and returns all records with
// Timestamp < cutoff, in (Timestamp, ID) order. It is the only removal path;
// an empty result leaves the cache untouched.
func (c *TemporalCache) DrainExpired(cutoff time.Time) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired []Entry
	c.tree.AscendLessThan(Entry{Timestamp: cutoff}, func(e Entry) bool {
		expired = append(expired, e)
		return true
	})
	for _, e := range expired {
		c.tree.Delete(e)
	}
	return expired
}
