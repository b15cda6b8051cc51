package config

import (
	"os"
	"strconv"
)

// FromEnv overlays RAPIDLOGS_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("RAPIDLOGS_WINDOW_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			cfg.WindowMs = ms
		}
	}
	if v := os.Getenv("RAPIDLOGS_SWEEP_INTERVAL_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms > 0 {
			cfg.SweepIntervalMs = ms
		}
	}
	if v := os.Getenv("RAPIDLOGS_BACKOFF"); v != "" {
		cfg.Retry.Type = v
	}
	if v := os.Getenv("RAPIDLOGS_BACKOFF_BASE_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
			cfg.Retry.BaseMs = ms
		}
	}
	if v := os.Getenv("RAPIDLOGS_BACKOFF_CAP_MS"); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil && ms >= 0 {
			cfg.Retry.CapMs = ms
		}
	}
	if v := os.Getenv("RAPIDLOGS_BACKOFF_FACTOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Retry.Factor = f
		}
	}
	if v := os.Getenv("RAPIDLOGS_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = uint32(n)
		}
	}
	if v := os.Getenv("RAPIDLOGS_MESSAGE_MAX_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.MessageMaxBytes = n
		}
	}
	if v := os.Getenv("RAPIDLOGS_TAG_MAX_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.TagMaxBytes = n
		}
	}
	if v := os.Getenv("RAPIDLOGS_BATCH_MAX_RECORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.BatchMaxRecords = n
		}
	}
}
