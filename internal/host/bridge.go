// Package host abstracts the embedding runtime the wizard runs inside.
package host

// HapticKind names a haptic cue.
type HapticKind string

const (
	// HapticSelection acknowledges a choice.
	HapticSelection HapticKind = "selection"
	// HapticSuccess signals a completed action.
	HapticSuccess HapticKind = "success"
	// HapticWarning signals a blocked action.
	HapticWarning HapticKind = "warning"
	// HapticError signals a failure.
	HapticError HapticKind = "error"
)

// Bridge is the surface the wizard uses to talk to its host.
type Bridge interface {
	// Ready tells the host the app finished loading.
	Ready()
	// Expand asks the host to give the app its full viewport.
	Expand()
	// UserID returns the current user's host identity when it is known.
	UserID() (int64, bool)
	ShowAlert(message string)
	// ShowConfirm asks a yes/no question and reports the answer to fn.
	ShowConfirm(message string, fn func(bool))
	Haptic(kind HapticKind)
	// ShowBackButton displays the host back button bound to fn, replacing any
	// previous binding.
	ShowBackButton(fn func())
	HideBackButton()
	// Close ends the app.
	Close()
}
