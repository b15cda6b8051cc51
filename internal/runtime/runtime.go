package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
	cfgpkg "github.com/spuerta10/RapidLogs/internal/config"
	"github.com/spuerta10/RapidLogs/internal/store"
	pebblestore "github.com/spuerta10/RapidLogs/internal/storage/pebble"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Runtime wires storage, the live cache, and config for a single-node instance.
type Runtime struct {
	db     *pebblestore.DB
	store  *store.PebbleStore
	cache  *cache.TemporalCache
	config cfgpkg.Config
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	db, err := pebblestore.Open(pebblestore.Options{DataDir: opts.DataDir, Fsync: opts.Fsync, FsyncInterval: opts.FsyncInterval})
	if err != nil {
		return nil, err
	}
	st, err := store.OpenPebble(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Runtime{db: db, store: st, cache: cache.New(), config: opts.Config}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// Cache returns the live temporal cache.
func (r *Runtime) Cache() *cache.TemporalCache { return r.cache }

// Store returns the durable store.
func (r *Runtime) Store() *store.PebbleStore { return r.store }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
