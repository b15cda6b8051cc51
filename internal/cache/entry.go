package cache

import (
	"time"

	"github.com/spuerta10/RapidLogs/pkg/id"
)

// Entry is a single immutable log record.
type Entry struct {
	// Timestamp is the record's own time, not the ingestion time. It may lie
	// outside the retention window; such records are accepted and evicted on
	// the next sweep.
	Timestamp time.Time
	// Tag is a short categorical label. Not validated here; the ingestion
	// gateway enforces its limits.
	Tag string
	// Message is the record payload.
	Message string
	// ID is assigned at ingestion and breaks ordering ties between records
	// sharing an exact Timestamp.
	ID id.ID
}

// less orders entries by Timestamp, ties broken by ID (insertion order).
func less(a, b Entry) bool {
	if a.Timestamp.Before(b.Timestamp) {
		return true
	}
	if b.Timestamp.Before(a.Timestamp) {
		return false
	}
	return a.ID.Compare(b.ID) < 0
}
