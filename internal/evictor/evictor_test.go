package evictor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
	"github.com/spuerta10/RapidLogs/internal/store"
	"github.com/spuerta10/RapidLogs/pkg/id"
)

// fakeStore records appended batches and can be told to fail the first N
// append calls.
type fakeStore struct {
	mu       sync.Mutex
	failLeft int
	appends  int
	batches  [][]cache.Entry
}

func (f *fakeStore) Append(_ context.Context, batch []cache.Entry, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	if f.failLeft > 0 {
		f.failLeft--
		return store.ErrUnavailable
	}
	cp := make([]cache.Entry, len(batch))
	copy(cp, batch)
	f.batches = append(f.batches, cp)
	return nil
}

func (f *fakeStore) ReadRange(context.Context, time.Time, time.Time) ([]store.StoredEntry, error) {
	return nil, nil
}

func (f *fakeStore) ReadAll(context.Context) ([]store.StoredEntry, error) { return nil, nil }

func (f *fakeStore) persisted() []cache.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []cache.Entry
	for _, b := range f.batches {
		out = append(out, b...)
	}
	return out
}

type lostAlert struct {
	mu      sync.Mutex
	batches [][]cache.Entry
	errs    []error
}

func (a *lostAlert) BatchLost(batch []cache.Entry, _ time.Time, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := make([]cache.Entry, len(batch))
	copy(cp, batch)
	a.batches = append(a.batches, cp)
	a.errs = append(a.errs, err)
}

func entryAt(t *testing.T, gen *id.Generator, ts time.Time, msg string) cache.Entry {
	t.Helper()
	return cache.Entry{Timestamp: ts, Tag: "app", Message: msg, ID: gen.Next()}
}

func fastPolicy(maxAttempts uint32) RetryPolicy {
	return RetryPolicy{Type: BackoffFixed, Base: time.Millisecond, MaxAttempts: maxAttempts}
}

func TestSweepMovesOnlyExpired(t *testing.T) {
	c := cache.New()
	fs := &fakeStore{}
	gen := id.NewGenerator()
	now := time.Date(2024, 5, 1, 0, 4, 0, 0, time.UTC)

	old := entryAt(t, gen, now.Add(-3*time.Minute), "expired")
	fresh := entryAt(t, gen, now.Add(-30*time.Second), "live")
	c.Insert(old)
	c.Insert(fresh)

	ev := New(c, fs, Options{
		Window: 2 * time.Minute,
		Policy: fastPolicy(1),
		Now:    func() time.Time { return now },
	})

	if got := ev.Sweep(); got != 1 {
		t.Fatalf("Sweep() = %d, want 1", got)
	}
	got := fs.persisted()
	if len(got) != 1 || got[0].Message != "expired" {
		t.Fatalf("persisted = %v, want only the expired record", got)
	}
	if c.Len() != 1 {
		t.Fatalf("cache len = %d after sweep, want 1", c.Len())
	}
	var rest []cache.Entry
	for e := range c.QueryAll() {
		rest = append(rest, e)
	}
	if len(rest) != 1 || rest[0].Message != "live" {
		t.Fatalf("cache holds %v, want only the live record", rest)
	}
}

func TestSweepCutoffIsExclusive(t *testing.T) {
	c := cache.New()
	fs := &fakeStore{}
	gen := id.NewGenerator()
	now := time.Date(2024, 5, 1, 0, 10, 0, 0, time.UTC)
	window := 2 * time.Minute

	// Timestamp exactly at now-window is still inside the live window.
	boundary := entryAt(t, gen, now.Add(-window), "boundary")
	c.Insert(boundary)

	ev := New(c, fs, Options{Window: window, Policy: fastPolicy(1), Now: func() time.Time { return now }})
	if got := ev.Sweep(); got != 0 {
		t.Fatalf("Sweep() = %d, want 0", got)
	}
	if c.Len() != 1 {
		t.Fatalf("cache len = %d, want 1", c.Len())
	}
}

func TestEmptySweepIsNoOp(t *testing.T) {
	c := cache.New()
	fs := &fakeStore{}
	ev := New(c, fs, Options{Window: time.Minute, Policy: fastPolicy(1)})
	if got := ev.Sweep(); got != 0 {
		t.Fatalf("Sweep() = %d, want 0", got)
	}
	if fs.appends != 0 {
		t.Fatalf("store saw %d appends for an empty sweep, want 0", fs.appends)
	}
	if ev.State() != StateIdle {
		t.Fatalf("state = %v after sweep, want idle", ev.State())
	}
}

func TestPersistRetriesThenSucceedsOnce(t *testing.T) {
	c := cache.New()
	fs := &fakeStore{failLeft: 2}
	gen := id.NewGenerator()
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	c.Insert(entryAt(t, gen, now.Add(-time.Hour), "a"))
	c.Insert(entryAt(t, gen, now.Add(-time.Hour), "b"))

	ev := New(c, fs, Options{Window: time.Minute, Policy: fastPolicy(5), Now: func() time.Time { return now }})
	if got := ev.Sweep(); got != 2 {
		t.Fatalf("Sweep() = %d, want 2", got)
	}
	if fs.appends != 3 {
		t.Fatalf("appends = %d, want 3 (two failures plus one success)", fs.appends)
	}
	if len(fs.batches) != 1 {
		t.Fatalf("successful batches = %d, want exactly 1", len(fs.batches))
	}
	st := ev.Stats()
	if st.Evicted != 2 || st.LostBatches != 0 {
		t.Fatalf("stats = %+v, want 2 evicted and no losses", st)
	}
}

func TestExhaustedRetriesAlertAndDrop(t *testing.T) {
	c := cache.New()
	fs := &fakeStore{failLeft: 100}
	alerts := &lostAlert{}
	gen := id.NewGenerator()
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	c.Insert(entryAt(t, gen, now.Add(-time.Hour), "doomed"))

	ev := New(c, fs, Options{
		Window: time.Minute,
		Policy: fastPolicy(3),
		Alerts: alerts,
		Now:    func() time.Time { return now },
	})
	if got := ev.Sweep(); got != 0 {
		t.Fatalf("Sweep() = %d, want 0 for a lost batch", got)
	}
	if fs.appends != 3 {
		t.Fatalf("appends = %d, want 3", fs.appends)
	}
	if len(alerts.batches) != 1 || len(alerts.batches[0]) != 1 {
		t.Fatalf("alert batches = %v, want one batch of one record", alerts.batches)
	}
	if !errors.Is(alerts.errs[0], store.ErrUnavailable) {
		t.Fatalf("alert err = %v, want ErrUnavailable", alerts.errs[0])
	}
	// The batch is dropped, never re-inserted into the cache.
	if c.Len() != 0 {
		t.Fatalf("cache len = %d after drop, want 0", c.Len())
	}
	st := ev.Stats()
	if st.LostBatches != 1 || st.LostRecords != 1 || st.Evicted != 0 {
		t.Fatalf("stats = %+v, want one lost batch", st)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	c := cache.New()
	fs := &fakeStore{}
	gen := id.NewGenerator()
	base := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	c.Insert(entryAt(t, gen, base.Add(-time.Hour), "old"))

	ev := New(c, fs, Options{
		Window:        time.Minute,
		SweepInterval: 5 * time.Millisecond,
		Policy:        fastPolicy(1),
		Now:           func() time.Time { return base },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ev.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(fs.persisted()) == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for the sweep loop to persist")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if ev.State() != StateStopped {
		t.Fatalf("state = %v after Run, want stopped", ev.State())
	}
}

func TestDefaultsApplied(t *testing.T) {
	ev := New(cache.New(), &fakeStore{}, Options{})
	if ev.opts.Window != defaultWindow {
		t.Fatalf("window = %v, want %v", ev.opts.Window, defaultWindow)
	}
	if ev.opts.SweepInterval != defaultSweepInterval {
		t.Fatalf("sweep interval = %v, want %v", ev.opts.SweepInterval, defaultSweepInterval)
	}
	if ev.opts.Policy.MaxAttempts == 0 {
		t.Fatal("max attempts must never be zero")
	}
	if ev.opts.Alerts == nil || ev.opts.Now == nil || ev.opts.Logger == nil {
		t.Fatal("nil option fields must be defaulted")
	}
}
