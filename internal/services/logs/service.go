package logsvc

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
	"github.com/spuerta10/RapidLogs/internal/evictor"
	"github.com/spuerta10/RapidLogs/internal/runtime"
	"github.com/spuerta10/RapidLogs/internal/store"
	"github.com/spuerta10/RapidLogs/pkg/id"
	logpkg "github.com/spuerta10/RapidLogs/pkg/log"
)

// Service provides ingest/query operations over the runtime's cache and
// durable store. Queries return one time-ordered view across both, so a
// record reads the same before and after eviction moves it.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger
	gen    *id.Generator
	now    func() time.Time
	// sweeper, when set, contributes evictor counters to Stats.
	sweeper func() evictor.Stats
}

// New returns a Service using a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, nil)
}

// NewWithLogger returns a Service using the provided logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	return &Service{
		rt:     rt,
		logger: logger.With(logpkg.Component("logs")),
		gen:    id.NewGenerator(),
		now:    time.Now,
	}
}

// SetSweeperStats wires the evictor's counter snapshot into Stats.
func (s *Service) SetSweeperStats(fn func() evictor.Stats) { s.sweeper = fn }

// Ingest validates and admits a batch of records into the live cache. The
// whole batch is rejected on the first invalid record. Accepted records are
// returned with their assigned IDs.
func (s *Service) Ingest(ctx context.Context, recs []IngestRecord) ([]Record, error) {
	limits := s.rt.Config().Limits
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalid)
	}
	if len(recs) > limits.BatchMaxRecords {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit %d", ErrInvalid, len(recs), limits.BatchMaxRecords)
	}
	// Millisecond granularity keeps cache timestamps aligned with the
	// ts_ms wire representation, so range bounds behave the same on both.
	now := s.now().UTC().Truncate(time.Millisecond)
	entries := make([]cache.Entry, 0, len(recs))
	for i, r := range recs {
		if r.Message == "" {
			return nil, fmt.Errorf("%w: record %d has empty message", ErrInvalid, i)
		}
		if len(r.Message) > limits.MessageMaxBytes {
			return nil, fmt.Errorf("%w: record %d message exceeds %d bytes", ErrInvalid, i, limits.MessageMaxBytes)
		}
		if len(r.Tag) > limits.TagMaxBytes {
			return nil, fmt.Errorf("%w: record %d tag exceeds %d bytes", ErrInvalid, i, limits.TagMaxBytes)
		}
		if r.TsMs < 0 {
			return nil, fmt.Errorf("%w: record %d has negative timestamp", ErrInvalid, i)
		}
		ts := now
		if r.TsMs > 0 {
			ts = time.UnixMilli(r.TsMs).UTC()
		}
		entries = append(entries, cache.Entry{Timestamp: ts, Tag: r.Tag, Message: r.Message, ID: s.gen.Next()})
	}
	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		s.rt.Cache().Insert(e)
		out = append(out, fromCacheEntry(e))
	}
	s.logger.Debug("ingested records", logpkg.Int("count", len(out)))
	return out, nil
}

// Query returns records with timestamps in [start, end], merged across the
// live cache and the durable store and sorted by (timestamp, id). filterExpr
// is an optional CEL expression; records it rejects are dropped.
func (s *Service) Query(ctx context.Context, start, end time.Time, filterExpr string) ([]Record, error) {
	flt, err := newCELFilter(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", ErrInvalid, err)
	}
	if start.After(end) {
		return []Record{}, nil
	}
	stored, err := s.rt.Store().ReadRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := s.merge(stored, s.rt.Cache().Query(start, end), flt)
	sortRecords(out)
	return out, nil
}

// QueryAll returns every record the node holds, cache and store combined,
// sorted by (timestamp, id).
func (s *Service) QueryAll(ctx context.Context, filterExpr string) ([]Record, error) {
	flt, err := newCELFilter(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: filter: %v", ErrInvalid, err)
	}
	stored, err := s.rt.Store().ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := s.merge(stored, s.rt.Cache().QueryAll(), flt)
	sortRecords(out)
	return out, nil
}

// merge combines store and cache results into one slice. A sweep can overlap
// a query, leaving the same record briefly visible on both sides; the durable
// copy wins and the cache copy is dropped.
func (s *Service) merge(stored []store.StoredEntry, cached iter.Seq[cache.Entry], flt celFilter) []Record {
	out := []Record{}
	persisted := make(map[string]struct{}, len(stored))
	for _, se := range stored {
		rec := fromStoredEntry(se)
		persisted[rec.ID] = struct{}{}
		if flt.Eval(rec) {
			out = append(out, rec)
		}
	}
	for e := range cached {
		rec := fromCacheEntry(e)
		if _, dup := persisted[rec.ID]; dup {
			continue
		}
		if flt.Eval(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Stats reports cache occupancy, durable-store counters, and, when wired,
// the evictor's sweep counters.
func (s *Service) Stats(ctx context.Context) (StatsInfo, error) {
	appended, lastEvictedAt := s.rt.Store().Stats()
	info := StatsInfo{
		CacheLen:      s.rt.Cache().Len(),
		StoreAppended: appended,
		LastEvictedAt: lastEvictedAt,
	}
	if s.sweeper != nil {
		st := s.sweeper()
		info.Sweeper = &st
	}
	return info, nil
}

func fromCacheEntry(e cache.Entry) Record {
	return Record{
		ID:      e.ID.String(),
		TsMs:    e.Timestamp.UnixMilli(),
		Tag:     e.Tag,
		Message: e.Message,
		Source:  SourceCache,
	}
}

func fromStoredEntry(se store.StoredEntry) Record {
	return Record{
		ID:          se.ID.String(),
		TsMs:        se.Timestamp.UnixMilli(),
		Tag:         se.Tag,
		Message:     se.Message,
		Source:      SourceStore,
		EvictedAtMs: se.EvictedAt.UnixMilli(),
	}
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].TsMs != recs[j].TsMs {
			return recs[i].TsMs < recs[j].TsMs
		}
		return recs[i].ID < recs[j].ID
	})
}
