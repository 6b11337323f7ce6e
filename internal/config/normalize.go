package config

import (
	"path/filepath"
	"strings"
)

// Defaults applied by Normalize.
const (
	DefaultBaseURL              = "http://127.0.0.1:8787"
	DefaultRequestTimeoutMS     = 15000
	DefaultPollIntervalMS       = 100
	DefaultPollAttempts         = 30
	DefaultGeolocationTimeoutMS = 5000
	DefaultJPEGQuality          = 80
	DefaultMaxPhotoDimension    = 1600
	DefaultLedgerFile           = "ledger.duckdb"
	DefaultLogLevel             = "info"
)

// Normalize trims values, fills defaults and resolves relative paths against root.
func Normalize(cfg *Config, root string) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBaseURL
	}
	if cfg.Backend.RequestTimeoutMS == 0 {
		cfg.Backend.RequestTimeoutMS = DefaultRequestTimeoutMS
	}
	if cfg.Host.IdentityPollIntervalMS == 0 {
		cfg.Host.IdentityPollIntervalMS = DefaultPollIntervalMS
	}
	if cfg.Host.IdentityPollAttempts == 0 {
		cfg.Host.IdentityPollAttempts = DefaultPollAttempts
	}
	if cfg.Capture.GeolocationTimeoutMS == 0 {
		cfg.Capture.GeolocationTimeoutMS = DefaultGeolocationTimeoutMS
	}
	if cfg.Capture.JPEGQuality == 0 {
		cfg.Capture.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.Capture.MaxPhotoDimension == 0 {
		cfg.Capture.MaxPhotoDimension = DefaultMaxPhotoDimension
	}
	cfg.Ledger.Path = strings.TrimSpace(cfg.Ledger.Path)
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = filepath.Join(ConfigDirName, DefaultLedgerFile)
	}
	cfg.Ledger.Path = resolve(root, cfg.Ledger.Path)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if file := strings.TrimSpace(cfg.Log.File); file != "" {
		cfg.Log.File = resolve(root, file)
	}
}

func resolve(root, path string) string {
	if path == ":memory:" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
