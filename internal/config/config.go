package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	WindowMs        int64       `json:"windowMs"`
	SweepIntervalMs int64       `json:"sweepIntervalMs"`
	Retry           RetryConfig `json:"retry"`
	Limits          Limits      `json:"limits"`
}

// RetryConfig tunes the evictor's persist retry loop.
type RetryConfig struct {
	Type        string  `json:"type"`
	BaseMs      int64   `json:"baseMs"`
	CapMs       int64   `json:"capMs"`
	Factor      float64 `json:"factor"`
	MaxAttempts uint32  `json:"maxAttempts"`
}

// Limits captures per-record ingest caps.
type Limits struct {
	MessageMaxBytes int `json:"messageMaxBytes"`
	TagMaxBytes     int `json:"tagMaxBytes"`
	BatchMaxRecords int `json:"batchMaxRecords"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		WindowMs:        (5 * time.Minute).Milliseconds(),
		SweepIntervalMs: (30 * time.Second).Milliseconds(),
		Retry: RetryConfig{
			Type:        "exp-jitter",
			BaseMs:      200,
			CapMs:       (30 * time.Second).Milliseconds(),
			Factor:      2.0,
			MaxAttempts: 5,
		},
		Limits: Limits{
			MessageMaxBytes: 1 << 20,
			TagMaxBytes:     256,
			BatchMaxRecords: 1000,
		},
	}
}

// Window returns the retention window as a duration.
func (c Config) Window() time.Duration { return time.Duration(c.WindowMs) * time.Millisecond }

// SweepInterval returns the evictor pace as a duration.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

// Validate rejects configurations the runtime cannot honor.
func (c Config) Validate() error {
	if c.WindowMs <= 0 {
		return errors.New("config: windowMs must be positive")
	}
	if c.SweepIntervalMs <= 0 {
		return errors.New("config: sweepIntervalMs must be positive")
	}
	if c.Limits.MessageMaxBytes <= 0 || c.Limits.TagMaxBytes <= 0 || c.Limits.BatchMaxRecords <= 0 {
		return errors.New("config: limits must be positive")
	}
	return nil
}

// Load reads configuration from a JSON file. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return Config{}, errors.New("yaml config not supported yet; use JSON for now")
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}
