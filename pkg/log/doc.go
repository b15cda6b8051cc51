// Package log provides RapidLogs' structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Output goes through a pluggable
// Formatter (text or JSON) and one or more Outputs (console by default).
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("evictor"))
//	l.Info("sweep complete", log.Int("evicted", 12))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level and
// format strings, typically sourced from flags or RAPIDLOGS_* env vars).
//
// # Interop
//
// Leveled calls dispatch through log/slog: BaseLogger wraps a slog.Logger
// whose handler bridges records back into the Formatter/Output pipeline, so
// slog-aware libraries can share the same sink. RedirectStdLog additionally
// routes standard library log output (used by Pebble) through a Logger so
// all process output shares one format.
package log
