package ui

import (
	"sync"

	"selfeval/internal/host"
)

// confirmPrompt is a pending yes/no question.
type confirmPrompt struct {
	message string
	fn      func(bool)
}

// Bridge is the host.Bridge presented by the terminal program. Alerts and
// confirmations are held until the model renders and resolves them.
type Bridge struct {
	mu sync.Mutex

	userID   int64
	hasID    bool
	ready    bool
	expanded bool
	closed   bool
	alert    string
	confirm  *confirmPrompt
	back     func()
	haptic   host.HapticKind
}

var _ host.Bridge = (*Bridge)(nil)

// NewBridge returns a bridge reporting userID as the host identity. A zero id
// means the identity is unknown.
func NewBridge(userID int64) *Bridge {
	return &Bridge{userID: userID, hasID: userID != 0}
}

// Ready marks the program loaded.
func (b *Bridge) Ready() {
	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()
}

// Expand marks the program as owning the full screen.
func (b *Bridge) Expand() {
	b.mu.Lock()
	b.expanded = true
	b.mu.Unlock()
}

// UserID returns the configured identity.
func (b *Bridge) UserID() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.userID, b.hasID
}

// ShowAlert replaces the banner text.
func (b *Bridge) ShowAlert(message string) {
	b.mu.Lock()
	b.alert = message
	b.mu.Unlock()
}

// ShowConfirm opens the confirmation dialog. A dialog that is already open is
// answered with no first.
func (b *Bridge) ShowConfirm(message string, fn func(bool)) {
	b.mu.Lock()
	previous := b.confirm
	b.confirm = &confirmPrompt{message: message, fn: fn}
	b.mu.Unlock()
	if previous != nil && previous.fn != nil {
		previous.fn(false)
	}
}

// Haptic flashes the footer.
func (b *Bridge) Haptic(kind host.HapticKind) {
	b.mu.Lock()
	b.haptic = kind
	b.mu.Unlock()
}

// ShowBackButton binds esc to fn.
func (b *Bridge) ShowBackButton(fn func()) {
	b.mu.Lock()
	b.back = fn
	b.mu.Unlock()
}

// HideBackButton unbinds esc.
func (b *Bridge) HideBackButton() {
	b.mu.Lock()
	b.back = nil
	b.mu.Unlock()
}

// Close asks the program to exit.
func (b *Bridge) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Closed reports whether Close was called.
func (b *Bridge) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// BackVisible reports whether a back handler is bound.
func (b *Bridge) BackVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.back != nil
}

// Alert returns the banner text.
func (b *Bridge) Alert() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alert
}

// Confirming returns the open confirmation message, if any.
func (b *Bridge) Confirming() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.confirm == nil {
		return "", false
	}
	return b.confirm.message, true
}

// pressBack runs the bound back handler outside the lock.
func (b *Bridge) pressBack() bool {
	b.mu.Lock()
	fn := b.back
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// resolveConfirm answers the open dialog.
func (b *Bridge) resolveConfirm(ok bool) bool {
	b.mu.Lock()
	prompt := b.confirm
	b.confirm = nil
	b.mu.Unlock()
	if prompt == nil {
		return false
	}
	if prompt.fn != nil {
		prompt.fn(ok)
	}
	return true
}

func (b *Bridge) dismissAlert() {
	b.mu.Lock()
	b.alert = ""
	b.mu.Unlock()
}

// takeHaptic returns and clears the last cue.
func (b *Bridge) takeHaptic() host.HapticKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	kind := b.haptic
	b.haptic = ""
	return kind
}
