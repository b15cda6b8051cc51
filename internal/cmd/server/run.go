package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	cfgpkg "github.com/spuerta10/RapidLogs/internal/config"
	"github.com/spuerta10/RapidLogs/internal/evictor"
	"github.com/spuerta10/RapidLogs/internal/runtime"
	httpserver "github.com/spuerta10/RapidLogs/internal/server/http"
	pebblestore "github.com/spuerta10/RapidLogs/internal/storage/pebble"
	logpkg "github.com/spuerta10/RapidLogs/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the HTTP server and the evictor and blocks until ctx is
// cancelled or a termination signal arrives.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{DataDir: storeDir, Fsync: opts.Fsync, FsyncInterval: opts.FsyncInterval, Config: opts.Config})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Build process-wide logger using env/ApplyConfig; defaults: level=info, format=text
	cfg := &logpkg.Config{
		Level:  getenvDefault("RAPIDLOGS_LOG_LEVEL", "info"),
		Format: getenvDefault("RAPIDLOGS_LOG_FORMAT", "text"),
	}
	procLogger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	procLogger.Info("Starting RapidLogs server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Dur("window", opts.Config.Window()),
		logpkg.Dur("sweep_interval", opts.Config.SweepInterval()),
		logpkg.Str("level", cfg.Level),
		logpkg.Str("format", cfg.Format),
	)

	hsrv := httpserver.New(rt, procLogger)
	ev := evictor.New(rt.Cache(), rt.Store(), evictor.Options{
		Window:        opts.Config.Window(),
		SweepInterval: opts.Config.SweepInterval(),
		Policy:        retryPolicy(opts.Config.Retry),
		Logger:        procLogger,
	})
	hsrv.Service().SetSweeperStats(ev.Stats)

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error { return ev.Run(gctx) })
	g.Go(func() error {
		if err := hsrv.ListenAndServe(gctx, opts.HTTPAddr); err != nil && gctx.Err() == nil {
			return err
		}
		return nil
	})

	err = g.Wait()
	// Shut the listener before the deferred rt.Close to avoid races.
	hsrv.Close()
	return err
}

// retryPolicy maps config fields onto the evictor's policy type.
func retryPolicy(rc cfgpkg.RetryConfig) evictor.RetryPolicy {
	pol := evictor.DefaultRetryPolicy()
	switch evictor.BackoffType(rc.Type) {
	case evictor.BackoffExp, evictor.BackoffExpJitter, evictor.BackoffFixed, evictor.BackoffNone:
		pol.Type = evictor.BackoffType(rc.Type)
	}
	if rc.BaseMs > 0 {
		pol.Base = time.Duration(rc.BaseMs) * time.Millisecond
	}
	if rc.CapMs > 0 {
		pol.Cap = time.Duration(rc.CapMs) * time.Millisecond
	}
	if rc.Factor > 0 {
		pol.Factor = rc.Factor
	}
	if rc.MaxAttempts > 0 {
		pol.MaxAttempts = rc.MaxAttempts
	}
	return pol
}
