package config

import "time"

// Config is the contents of .selfeval/config.yml.
type Config struct {
	Version int           `yaml:"version"`
	Backend BackendConfig `yaml:"backend"`
	Host    HostConfig    `yaml:"host"`
	Capture CaptureConfig `yaml:"capture"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Log     LogConfig     `yaml:"log"`
}

// BackendConfig points at the evaluation backend.
type BackendConfig struct {
	BaseURL          string `yaml:"base_url"`
	RequestTimeoutMS int    `yaml:"request_timeout_ms"`
}

// HostConfig tunes the host bridge.
type HostConfig struct {
	// FallbackUserID is the identity reported when no host runtime is present.
	FallbackUserID         int64 `yaml:"fallback_user_id"`
	IdentityPollIntervalMS int   `yaml:"identity_poll_interval_ms"`
	IdentityPollAttempts   int   `yaml:"identity_poll_attempts"`
}

// CaptureConfig tunes photo and position capture.
type CaptureConfig struct {
	GeolocationTimeoutMS int      `yaml:"geolocation_timeout_ms"`
	JPEGQuality          int      `yaml:"jpeg_quality"`
	MaxPhotoDimension    int      `yaml:"max_photo_dimension"`
	DeviceLatitude       *float64 `yaml:"device_latitude"`
	DeviceLongitude      *float64 `yaml:"device_longitude"`
	DeviceAccuracy       float64  `yaml:"device_accuracy"`
}

// LedgerConfig locates the local submission history.
type LedgerConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives log lines while the terminal UI owns the screen.
	File string `yaml:"file"`
}

// RequestTimeout returns the backend request timeout.
func (c BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// PollInterval returns the identity poll interval.
func (c HostConfig) PollInterval() time.Duration {
	return time.Duration(c.IdentityPollIntervalMS) * time.Millisecond
}

// GeolocationTimeout returns the maximum wait for a position fix.
func (c CaptureConfig) GeolocationTimeout() time.Duration {
	return time.Duration(c.GeolocationTimeoutMS) * time.Millisecond
}

// HasDeviceLocation reports whether static device coordinates are configured.
func (c CaptureConfig) HasDeviceLocation() bool {
	return c.DeviceLatitude != nil && c.DeviceLongitude != nil
}
