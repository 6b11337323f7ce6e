package testutil

import (
	"sync"

	"selfeval/internal/host"
)

// FakeBridge records every host call for assertions.
type FakeBridge struct {
	mu sync.Mutex

	ID      int64
	HasID   bool
	Confirm bool
	// IdentityAfter makes UserID report unavailable for that many calls.
	IdentityAfter int

	Alerts       []string
	Confirms     []string
	Haptics      []host.HapticKind
	BackBindings int
	Readied      bool
	Expanded     bool
	Closed       bool
	idCalls      int
	back         func()
}

// NewFakeBridge returns a bridge that reports id as the current user.
func NewFakeBridge(id int64) *FakeBridge {
	return &FakeBridge{ID: id, HasID: true, Confirm: true}
}

// Ready records the call.
func (b *FakeBridge) Ready() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Readied = true
}

// Expand records the call.
func (b *FakeBridge) Expand() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Expanded = true
}

// UserID reports the configured identity once IdentityAfter calls have passed.
func (b *FakeBridge) UserID() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.idCalls++
	if !b.HasID || b.idCalls <= b.IdentityAfter {
		return 0, false
	}
	return b.ID, true
}

// IdentityCalls returns how many times UserID was called.
func (b *FakeBridge) IdentityCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.idCalls
}

// ShowAlert records message.
func (b *FakeBridge) ShowAlert(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Alerts = append(b.Alerts, message)
}

// ShowConfirm records message and answers with Confirm.
func (b *FakeBridge) ShowConfirm(message string, fn func(bool)) {
	b.mu.Lock()
	b.Confirms = append(b.Confirms, message)
	answer := b.Confirm
	b.mu.Unlock()
	if fn != nil {
		fn(answer)
	}
}

// Haptic records kind.
func (b *FakeBridge) Haptic(kind host.HapticKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Haptics = append(b.Haptics, kind)
}

// ShowBackButton binds fn.
func (b *FakeBridge) ShowBackButton(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.back = fn
	b.BackBindings++
}

// HideBackButton unbinds the back handler.
func (b *FakeBridge) HideBackButton() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.back = nil
}

// BackVisible reports whether a back handler is bound.
func (b *FakeBridge) BackVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.back != nil
}

// PressBack runs the bound back handler and reports whether one existed.
func (b *FakeBridge) PressBack() bool {
	b.mu.Lock()
	fn := b.back
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Close records the call.
func (b *FakeBridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Closed = true
}

// LastAlert returns the most recent alert.
func (b *FakeBridge) LastAlert() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Alerts) == 0 {
		return ""
	}
	return b.Alerts[len(b.Alerts)-1]
}

// LastHaptic returns the most recent haptic cue.
func (b *FakeBridge) LastHaptic() host.HapticKind {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Haptics) == 0 {
		return ""
	}
	return b.Haptics[len(b.Haptics)-1]
}
