package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/spuerta10/RapidLogs/pkg/id"
)

var testGen = id.NewGenerator()

func mkEntry(ts time.Time, msg string) Entry {
	return Entry{Timestamp: ts, Tag: "INFO", Message: msg, ID: testGen.Next()}
}

func collect(seq func(yield func(Entry) bool)) []Entry {
	var out []Entry
	seq(func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

func TestQueryClosedInterval(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		c.Insert(mkEntry(base.Add(time.Duration(i)*time.Minute), "m"))
	}

	got := collect(c.Query(base.Add(1*time.Minute), base.Add(3*time.Minute)))
	if len(got) != 3 {
		t.Fatalf("want 3 entries in [t+1,t+3], got %d", len(got))
	}
	if !got[0].Timestamp.Equal(base.Add(1 * time.Minute)) {
		t.Fatalf("start boundary not inclusive")
	}
	if !got[2].Timestamp.Equal(base.Add(3 * time.Minute)) {
		t.Fatalf("end boundary not inclusive")
	}
}

func TestQueryInvertedRangeIsEmpty(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(base, "m"))

	got := collect(c.Query(base.Add(5*time.Minute), base))
	if len(got) != 0 {
		t.Fatalf("inverted range should be empty, got %d entries", len(got))
	}
}

func TestQueryTieBreakByInsertionOrder(t *testing.T) {
	c := New()
	ts := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(ts, "first"))
	c.Insert(mkEntry(ts, "second"))
	c.Insert(mkEntry(ts, "third"))

	got := collect(c.Query(ts, ts))
	if len(got) != 3 {
		t.Fatalf("want 3 entries at same ts, got %d", len(got))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].Message != want {
			t.Fatalf("position %d: want %q got %q", i, want, got[i].Message)
		}
	}
}

func TestQueryAllSorted(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	// insert out of timestamp order
	c.Insert(mkEntry(base.Add(2*time.Minute), "c"))
	c.Insert(mkEntry(base, "a"))
	c.Insert(mkEntry(base.Add(1*time.Minute), "b"))

	got := collect(c.QueryAll())
	if len(got) != 3 {
		t.Fatalf("want 3, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.Before(got[i-1].Timestamp) {
			t.Fatalf("entries out of order at %d", i)
		}
	}
}

func TestQueryIsRestartable(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(base, "a"))
	c.Insert(mkEntry(base.Add(time.Minute), "b"))

	seq := c.Query(base, base.Add(time.Minute))
	first := collect(seq)
	second := collect(seq)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("re-ranging the sequence should re-scan: %d vs %d", len(first), len(second))
	}
}

func TestDrainExpired(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(base, "old"))
	c.Insert(mkEntry(base.Add(2*time.Minute), "cutoff"))
	c.Insert(mkEntry(base.Add(4*time.Minute), "live"))

	cutoff := base.Add(2 * time.Minute)
	expired := c.DrainExpired(cutoff)
	if len(expired) != 1 || expired[0].Message != "old" {
		t.Fatalf("want exactly the strictly-older entry, got %v", expired)
	}

	// entries at exactly the cutoff stay live
	remaining := collect(c.QueryAll())
	if len(remaining) != 2 {
		t.Fatalf("want 2 remaining, got %d", len(remaining))
	}
	if remaining[0].Message != "cutoff" || remaining[1].Message != "live" {
		t.Fatalf("unexpected survivors: %v", remaining)
	}
}

func TestDrainExpiredOrdered(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(base.Add(3*time.Second), "3"))
	c.Insert(mkEntry(base.Add(1*time.Second), "1"))
	c.Insert(mkEntry(base.Add(2*time.Second), "2"))

	expired := c.DrainExpired(base.Add(time.Minute))
	if len(expired) != 3 {
		t.Fatalf("want 3 expired, got %d", len(expired))
	}
	for i := 1; i < len(expired); i++ {
		if expired[i].Timestamp.Before(expired[i-1].Timestamp) {
			t.Fatalf("drained batch out of order at %d", i)
		}
	}
}

func TestEmptySweepIsNoop(t *testing.T) {
	c := New()
	base := time.Date(2023, 4, 23, 10, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(base, "a"))

	expired := c.DrainExpired(base.Add(-time.Hour))
	if len(expired) != 0 {
		t.Fatalf("want empty batch, got %d", len(expired))
	}
	if c.Len() != 1 {
		t.Fatalf("empty sweep must leave the cache unchanged")
	}
}

func TestSweepScenario(t *testing.T) {
	// window=3min; entries at 00:00, 00:02, 00:04; sweep at 00:05 with
	// cutoff 00:02 evicts only the 00:00 entry.
	c := New()
	base := time.Date(2023, 4, 23, 0, 0, 0, 0, time.UTC)
	c.Insert(mkEntry(base, "00:00"))
	c.Insert(mkEntry(base.Add(2*time.Minute), "00:02"))
	c.Insert(mkEntry(base.Add(4*time.Minute), "00:04"))

	expired := c.DrainExpired(base.Add(2 * time.Minute))
	if len(expired) != 1 || expired[0].Message != "00:00" {
		t.Fatalf("want only 00:00 evicted, got %v", expired)
	}
	got := collect(c.QueryAll())
	if len(got) != 2 || got[0].Message != "00:02" || got[1].Message != "00:04" {
		t.Fatalf("want [00:02 00:04] live, got %v", got)
	}
}

func TestConcurrentInsertQueryDrain(t *testing.T) {
	c := New()
	base := time.Now()
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			c.Insert(mkEntry(base.Add(time.Duration(i)*time.Millisecond), "w"))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			c.DrainExpired(base.Add(100 * time.Millisecond))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				prev := time.Time{}
				for e := range c.QueryAll() {
					if e.Timestamp.Before(prev) {
						t.Error("query observed out-of-order entries")
						return
					}
					prev = e.Timestamp
				}
			}
		}()
	}

	time.Sleep(200 * time.Millisecond)
	close(stop)
	wg.Wait()
}
