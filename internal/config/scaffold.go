package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1
backend:
  base_url: "http://127.0.0.1:8787"
  request_timeout_ms: 15000

host:
  # Identity used when the app runs outside a chat host.
  fallback_user_id: 0
  identity_poll_interval_ms: 100
  identity_poll_attempts: 30

capture:
  geolocation_timeout_ms: 5000
  jpeg_quality: 80
  max_photo_dimension: 1600

ledger:
  path: ".selfeval/ledger.duckdb"
  disabled: false

log:
  level: "info"
`

// Scaffold writes a starter config under root. Existing files are kept unless
// force is set.
func Scaffold(root string, force bool) (string, error) {
	path := ConfigPath(root)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat config: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
