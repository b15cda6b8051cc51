// Package config provides loading and environment overlay for RapidLogs
// runtime configuration. It exposes a Default() baseline, JSON file loading,
// and a RAPIDLOGS_* environment overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/rapidlogs.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
package config
