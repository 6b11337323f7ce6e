// Package verbose writes leveled diagnostic lines to a console or log file.
package verbose

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const prefix = "[selfeval]"

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff disables logging.
	LevelOff
)

// ParseLevel converts a config value into a Level. Empty means info.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", value)
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "off"
}

// Logger is safe for concurrent use. A nil *Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	level   Level
	palette palette
	now     func() time.Time
}

// Options configures New.
type Options struct {
	Level   Level
	NoColor bool
	// Timestamps prefixes each line with the wall-clock time.
	Timestamps bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *Logger {
	logger := &Logger{
		w:       w,
		level:   opts.Level,
		palette: paletteFor(w, opts.NoColor),
	}
	if opts.Timestamps {
		logger.now = time.Now
	}
	return logger
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, Options{Level: LevelOff, NoColor: true})
}

// Enabled reports whether lines at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.w != nil && level >= l.level && l.level != LevelOff
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.logf(LevelInfo, format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.logf(LevelWarn, format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *Logger) logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	line := fmt.Sprintf(format, args...)
	var b strings.Builder
	if l.now != nil {
		b.WriteString(l.now().Format(time.RFC3339))
		b.WriteByte(' ')
	}
	b.WriteString(l.palette.prefix(prefix))
	b.WriteByte(' ')
	b.WriteString(l.palette.level(level))
	b.WriteByte(' ')
	b.WriteString(line)
	b.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.w, b.String())
}

type palette struct {
	enabled bool
}

func paletteFor(w io.Writer, noColor bool) palette {
	if noColor {
		return palette{}
	}
	return palette{enabled: ShouldUseStyling(w)}
}

// ShouldUseStyling reports whether w is a terminal that accepts color.
func ShouldUseStyling(w io.Writer) bool {
	if w == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

var (
	prefixStyle = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("8"))
	levelStyles = map[Level]lipgloss.Style{
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelInfo:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		LevelWarn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	}
)

func (p palette) prefix(text string) string {
	if !p.enabled {
		return text
	}
	return prefixStyle.Render(text)
}

func (p palette) level(level Level) string {
	text := strings.ToUpper(level.String())
	if !p.enabled {
		return text
	}
	return levelStyles[level].Render(text)
}
