package evictor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
	"github.com/spuerta10/RapidLogs/internal/store"
	"github.com/spuerta10/RapidLogs/pkg/log"
)

// State reports what the sweeper is doing right now.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StatePersisting
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StatePersisting:
		return "persisting"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Options tunes a single Evictor instance.
type Options struct {
	// Window is the retention horizon. Records with timestamps older than
	// now-Window are swept out of the cache.
	Window time.Duration
	// SweepInterval is the pause between sweep passes.
	SweepInterval time.Duration
	// Policy bounds persist retries for a drained batch.
	Policy RetryPolicy
	// Alerts receives batches that exhausted their retry budget.
	Alerts AlertHook
	Logger log.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

const (
	defaultWindow        = 5 * time.Minute
	defaultSweepInterval = 30 * time.Second
)

// Evictor owns the background lifecycle that expires cache entries into the
// durable store. One Evictor serves one cache/store pair.
type Evictor struct {
	cache *cache.TemporalCache
	store store.Store
	opts  Options

	state        atomic.Int32
	sweeps       atomic.Uint64
	evicted      atomic.Uint64
	lostBatches  atomic.Uint64
	lostRecords  atomic.Uint64
	lastSweepNix atomic.Int64
}

// New wires an evictor over the given cache and store. Zero option fields
// fall back to defaults.
func New(c *cache.TemporalCache, s store.Store, opts Options) *Evictor {
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.Policy == (RetryPolicy{}) {
		opts.Policy = DefaultRetryPolicy()
	}
	if opts.Policy.MaxAttempts == 0 {
		opts.Policy.MaxAttempts = 1
	}
	if opts.Alerts == nil {
		opts.Alerts = noopAlerts{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Logger = opts.Logger.With(log.Component("evictor"))
	return &Evictor{cache: c, store: s, opts: opts}
}

// State returns the current lifecycle state.
func (e *Evictor) State() State { return State(e.state.Load()) }

// Stats is a point-in-time snapshot of sweep counters.
type Stats struct {
	State         string    `json:"state"`
	Sweeps        uint64    `json:"sweeps"`
	Evicted       uint64    `json:"evicted"`
	LostBatches   uint64    `json:"lost_batches"`
	LostRecords   uint64    `json:"lost_records"`
	LastSweepAt   time.Time `json:"last_sweep_at,omitzero"`
	Window        string    `json:"window"`
	SweepInterval string    `json:"sweep_interval"`
}

func (e *Evictor) Stats() Stats {
	st := Stats{
		State:         e.State().String(),
		Sweeps:        e.sweeps.Load(),
		Evicted:       e.evicted.Load(),
		LostBatches:   e.lostBatches.Load(),
		LostRecords:   e.lostRecords.Load(),
		Window:        e.opts.Window.String(),
		SweepInterval: e.opts.SweepInterval.String(),
	}
	if nix := e.lastSweepNix.Load(); nix > 0 {
		st.LastSweepAt = time.Unix(0, nix).UTC()
	}
	return st
}

// Run drives the sweep loop until ctx is cancelled. An in-flight sweep,
// including its persist retries, always completes before Run returns, so
// cancellation never strands a drained batch.
func (e *Evictor) Run(ctx context.Context) error {
	e.opts.Logger.Info("evictor started",
		log.Dur("window", e.opts.Window),
		log.Dur("sweep_interval", e.opts.SweepInterval),
		log.Str("backoff", string(e.opts.Policy.Type)))
	ticker := time.NewTicker(e.opts.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			e.state.Store(int32(StateStopped))
			e.opts.Logger.Info("evictor stopped", log.Int64("sweeps", int64(e.sweeps.Load())))
			return nil
		case <-ticker.C:
			e.Sweep()
		}
	}
}

// Sweep performs one scan/persist pass and returns the number of records
// moved to the durable store. It is the unit the loop repeats; callers may
// also invoke it directly to force a pass.
func (e *Evictor) Sweep() int {
	e.state.Store(int32(StateScanning))
	defer e.state.Store(int32(StateIdle))

	now := e.opts.Now()
	e.sweeps.Add(1)
	e.lastSweepNix.Store(now.UnixNano())

	cutoff := now.Add(-e.opts.Window)
	batch := e.cache.DrainExpired(cutoff)
	if len(batch) == 0 {
		return 0
	}

	e.state.Store(int32(StatePersisting))
	if err := e.persist(batch, now); err != nil {
		e.lostBatches.Add(1)
		e.lostRecords.Add(uint64(len(batch)))
		e.opts.Logger.Error("dropping batch after exhausting retries",
			log.Int("records", len(batch)),
			log.Int("max_attempts", int(e.opts.Policy.MaxAttempts)),
			log.Err(err))
		e.opts.Alerts.BatchLost(batch, now, err)
		return 0
	}
	e.evicted.Add(uint64(len(batch)))
	e.opts.Logger.Debug("swept expired records",
		log.Int("records", len(batch)),
		log.Time("cutoff", cutoff))
	return len(batch)
}

// persist appends the batch with bounded retries. The append is idempotent
// on the store side, so a retry after a partially applied failure cannot
// duplicate records.
func (e *Evictor) persist(batch []cache.Entry, evictedAt time.Time) error {
	var lastErr error
	for attempt := uint32(1); attempt <= e.opts.Policy.MaxAttempts; attempt++ {
		err := e.store.Append(context.Background(), batch, evictedAt)
		if err == nil {
			return nil
		}
		lastErr = err
		e.opts.Logger.Warn("persist attempt failed",
			log.Int("attempt", int(attempt)),
			log.Int("records", len(batch)),
			log.Err(err))
		if attempt < e.opts.Policy.MaxAttempts {
			if d := computeBackoff(e.opts.Policy, attempt); d > 0 {
				time.Sleep(d)
			}
		}
	}
	return lastErr
}
