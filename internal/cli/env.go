package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"selfeval/internal/backend"
	"selfeval/internal/config"
	"selfeval/internal/geo"
	"selfeval/internal/host"
	"selfeval/internal/ledger"
	"selfeval/internal/template"
	"selfeval/internal/usercontext"
	"selfeval/internal/verbose"
	"selfeval/internal/wizard"
)

// loadConfig loads the config at path, or the nearest .selfeval/config.yml.
// Without any config file the defaults for the working directory are used.
func loadConfig(path string) (config.Config, error) {
	if strings.TrimSpace(path) != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve config path: %w", err)
		}
		return config.Load(abs)
	}
	found, err := config.FindConfigPath("")
	if err == nil {
		return config.Load(found)
	}
	if !errors.Is(err, config.ErrNotFound) {
		return config.Config{}, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Config{}, fmt.Errorf("get working directory: %w", err)
	}
	return config.Default(wd), nil
}

// newLogger builds a logger for cfg writing to w.
func newLogger(cfg config.Config, w io.Writer, noColor bool) *verbose.Logger {
	level, err := verbose.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = verbose.LevelInfo
	}
	return verbose.New(w, verbose.Options{Level: level, NoColor: noColor})
}

// openLogFile creates the directory for path and truncates the file.
func openLogFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// openLedger opens the history database unless disabled. Failures are logged
// and yield a nil ledger.
func openLedger(ctx context.Context, cfg config.Config, logger *verbose.Logger) *ledger.Ledger {
	if cfg.Ledger.Disabled {
		return nil
	}
	l, err := ledger.Open(ctx, cfg.Ledger.Path)
	if err != nil {
		logger.Warnf("history disabled: %v", err)
		return nil
	}
	return l
}

// locatorFor returns the configured device position source.
func locatorFor(cfg config.Config) geo.Locator {
	if !cfg.Capture.HasDeviceLocation() {
		return geo.Unavailable{}
	}
	return geo.Static{Fix: geo.Fix{
		Latitude:  *cfg.Capture.DeviceLatitude,
		Longitude: *cfg.Capture.DeviceLongitude,
		Accuracy:  cfg.Capture.DeviceAccuracy,
	}}
}

// userIDFor applies the --user override to the configured identity.
func userIDFor(cfg config.Config, override int64) int64 {
	if override != 0 {
		return override
	}
	return cfg.Host.FallbackUserID
}

// newWizard wires a wizard to the configured backend.
func newWizard(cfg config.Config, bridge host.Bridge, logger *verbose.Logger, history *ledger.Ledger) *wizard.Wizard {
	client := backend.NewWithTimeout(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout())
	observers := wizard.Observers{logObserver{logger: logger}}
	if history != nil {
		observers = append(observers, ledger.NewRecorder(history, logger))
	}
	return wizard.New(wizard.Options{
		Template:     template.Default(),
		Bridge:       bridge,
		Resolver:     usercontext.New(client),
		Submitter:    client,
		Locator:      locatorFor(cfg),
		GeoTimeout:   cfg.Capture.GeolocationTimeout(),
		PollInterval: cfg.Host.PollInterval(),
		PollAttempts: cfg.Host.IdentityPollAttempts,
		Observer:     observers,
	})
}

// logObserver writes wizard transitions to the log.
type logObserver struct {
	logger *verbose.Logger
}

func (o logObserver) OnTransition(from, to wizard.State) {
	o.logger.Debugf("wizard: %s -> %s", describeState(from), describeState(to))
}

func (o logObserver) OnComplete(result wizard.Result) {
	o.logger.Infof("evaluation %s submitted for %s: score %.2f passed=%t", result.ID, result.LocationName, result.Score, result.Passed)
}

func describeState(state wizard.State) string {
	if state.Step == wizard.StepQuestions {
		return fmt.Sprintf("%s[%d]", state.Step, state.AreaIndex)
	}
	return string(state.Step)
}
