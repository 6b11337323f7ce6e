package host

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Fallback is the Bridge used when no host runtime is present. Alerts are
// written to Out, confirmations are read as y/n lines from In, and haptics are
// ignored.
type Fallback struct {
	Out io.Writer
	In  io.Reader
	// FallbackUserID is reported by UserID when non-zero.
	FallbackUserID int64

	mu       sync.Mutex
	reader   *bufio.Reader
	back     func()
	closed   bool
	ready    bool
	expanded bool
}

// NewFallback builds a fallback bridge.
func NewFallback(out io.Writer, in io.Reader, userID int64) *Fallback {
	return &Fallback{Out: out, In: in, FallbackUserID: userID}
}

// Ready records that the app loaded.
func (f *Fallback) Ready() {
	f.mu.Lock()
	f.ready = true
	f.mu.Unlock()
}

// Expand is a no-op beyond bookkeeping.
func (f *Fallback) Expand() {
	f.mu.Lock()
	f.expanded = true
	f.mu.Unlock()
}

// UserID returns the configured identity.
func (f *Fallback) UserID() (int64, bool) {
	if f.FallbackUserID == 0 {
		return 0, false
	}
	return f.FallbackUserID, true
}

// ShowAlert prints message.
func (f *Fallback) ShowAlert(message string) {
	if f.Out == nil {
		return
	}
	fmt.Fprintln(f.Out, message)
}

// ShowConfirm prints message and reads an answer. Anything other than a line
// starting with y is treated as no.
func (f *Fallback) ShowConfirm(message string, fn func(bool)) {
	if f.Out != nil {
		fmt.Fprintf(f.Out, "%s [y/N] ", message)
	}
	answer := false
	if f.In != nil {
		f.mu.Lock()
		if f.reader == nil {
			f.reader = bufio.NewReader(f.In)
		}
		line, _ := f.reader.ReadString('\n')
		f.mu.Unlock()
		answer = strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
	}
	if fn != nil {
		fn(answer)
	}
}

// Haptic does nothing.
func (f *Fallback) Haptic(HapticKind) {}

// ShowBackButton stores fn as the current back handler.
func (f *Fallback) ShowBackButton(fn func()) {
	f.mu.Lock()
	f.back = fn
	f.mu.Unlock()
}

// HideBackButton clears the back handler.
func (f *Fallback) HideBackButton() {
	f.mu.Lock()
	f.back = nil
	f.mu.Unlock()
}

// Back invokes the bound back handler and reports whether one was bound.
func (f *Fallback) Back() bool {
	f.mu.Lock()
	fn := f.back
	f.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// BackVisible reports whether a back handler is bound.
func (f *Fallback) BackVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.back != nil
}

// Close marks the bridge closed.
func (f *Fallback) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// Closed reports whether Close was called.
func (f *Fallback) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
