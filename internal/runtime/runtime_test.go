package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
	cfgpkg "github.com/spuerta10/RapidLogs/internal/config"
	pebblestore "github.com/spuerta10/RapidLogs/internal/storage/pebble"
	"github.com/spuerta10/RapidLogs/pkg/id"
)

func TestOpenCloseHealth(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open runtime: %v", err)
	}
	defer rt.Close()
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.WindowMs = 0
	if _, err := Open(Options{DataDir: t.TempDir(), Config: cfg}); err == nil {
		t.Fatal("expected invalid config to fail open")
	}
}

func TestCacheAndStoreWired(t *testing.T) {
	dir := t.TempDir()
	rt, err := Open(Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways, Config: cfgpkg.Default()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rt.Close()

	gen := id.NewGenerator()
	e := cache.Entry{Timestamp: time.Now().UTC(), Tag: "app", Message: "hello", ID: gen.Next()}
	rt.Cache().Insert(e)
	if rt.Cache().Len() != 1 {
		t.Fatalf("cache len = %d, want 1", rt.Cache().Len())
	}
	if err := rt.Store().Append(context.Background(), []cache.Entry{e}, time.Now()); err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := rt.Store().ReadAll(context.Background())
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(got) != 1 || got[0].Message != "hello" {
		t.Fatalf("stored = %v", got)
	}
}
