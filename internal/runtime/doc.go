// Package runtime wires storage, cache, and config into a single-node
// RapidLogs instance. It exposes Open/Close, basic health checks, and the
// components higher-level services build on.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	rt.Cache().Insert(cache.Entry{ /* ... */ })
package runtime
