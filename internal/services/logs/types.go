package logsvc

import (
	"errors"
	"time"

	"github.com/spuerta10/RapidLogs/internal/evictor"
)

// Record sources reported on query results.
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// ErrInvalid tags ingest validation failures so transports can map them to
// client errors.
var ErrInvalid = errors.New("invalid record")

// IngestRecord is one log record as submitted by a client. A zero TsMs means
// "now".
type IngestRecord struct {
	TsMs    int64  `json:"ts_ms,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Message string `json:"message"`
}

// Record is one log record as returned by queries.
type Record struct {
	ID          string `json:"id"`
	TsMs        int64  `json:"ts_ms"`
	Tag         string `json:"tag,omitempty"`
	Message     string `json:"message"`
	Source      string `json:"source"`
	EvictedAtMs int64  `json:"evicted_at_ms,omitempty"`
}

// Timestamp returns the record timestamp as a time.Time.
func (r Record) Timestamp() time.Time { return time.UnixMilli(r.TsMs).UTC() }

// StatsInfo is the node-level snapshot returned by Stats.
type StatsInfo struct {
	CacheLen      int            `json:"cache_len"`
	StoreAppended uint64         `json:"store_appended"`
	LastEvictedAt time.Time      `json:"last_evicted_at,omitzero"`
	Sweeper       *evictor.Stats `json:"sweeper,omitempty"`
}
