package config

import (
	"fmt"
	"net/url"
	"strings"

	"selfeval/internal/verbose"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

type issueCollector struct {
	issues []Issue
}

func (c *issueCollector) add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

func (c *issueCollector) result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: c.issues}
}

// Validate checks a normalized config.
func Validate(cfg Config) error {
	collector := &issueCollector{}
	if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	validateBackend(cfg.Backend, collector)
	validateHost(cfg.Host, collector)
	validateCapture(cfg.Capture, collector)
	if _, err := verbose.ParseLevel(cfg.Log.Level); err != nil {
		collector.add("log.level", "must be one of debug, info, warn, error, off")
	}
	return collector.result()
}

func validateBackend(backend BackendConfig, collector *issueCollector) {
	parsed, err := url.Parse(backend.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		collector.add("backend.base_url", "must be an absolute http(s) URL")
	}
	if backend.RequestTimeoutMS < 0 {
		collector.add("backend.request_timeout_ms", "must be positive")
	}
}

func validateHost(host HostConfig, collector *issueCollector) {
	if host.FallbackUserID < 0 {
		collector.add("host.fallback_user_id", "must not be negative")
	}
	if host.IdentityPollIntervalMS < 0 {
		collector.add("host.identity_poll_interval_ms", "must be positive")
	}
	if host.IdentityPollAttempts < 0 {
		collector.add("host.identity_poll_attempts", "must be positive")
	}
}

func validateCapture(capture CaptureConfig, collector *issueCollector) {
	if capture.GeolocationTimeoutMS < 0 {
		collector.add("capture.geolocation_timeout_ms", "must be positive")
	}
	if capture.JPEGQuality < 1 || capture.JPEGQuality > 100 {
		collector.add("capture.jpeg_quality", "must be between 1 and 100")
	}
	if capture.MaxPhotoDimension < 0 {
		collector.add("capture.max_photo_dimension", "must be positive")
	}
	if (capture.DeviceLatitude == nil) != (capture.DeviceLongitude == nil) {
		collector.add("capture.device_latitude", "device_latitude and device_longitude must be set together")
	}
	if capture.DeviceLatitude != nil && (*capture.DeviceLatitude < -90 || *capture.DeviceLatitude > 90) {
		collector.add("capture.device_latitude", "must be between -90 and 90")
	}
	if capture.DeviceLongitude != nil && (*capture.DeviceLongitude < -180 || *capture.DeviceLongitude > 180) {
		collector.add("capture.device_longitude", "must be between -180 and 180")
	}
	if capture.DeviceAccuracy < 0 {
		collector.add("capture.device_accuracy", "must not be negative")
	}
}
