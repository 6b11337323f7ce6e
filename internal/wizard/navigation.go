package wizard

import (
	"selfeval/internal/host"
)

// transition moves to next, keeps the session area index in step, rebinds the
// host back button and emits a haptic cue.
func (w *Wizard) transition(next State, haptic host.HapticKind) {
	from := w.state
	w.state = next
	if w.session != nil && next.Step == StepQuestions {
		w.session.AreaIndex = next.AreaIndex
	}
	w.rebindBack()
	if haptic != "" {
		w.bridge.Haptic(haptic)
	}
	w.opts.Observer.OnTransition(from, next)
}

// rebindBack binds the host back button for the current state. The handler
// captures the state it was bound in and does nothing if the wizard has moved
// on since.
func (w *Wizard) rebindBack() {
	if w.closed || !w.state.Step.Interactive() {
		w.bridge.HideBackButton()
		return
	}
	bound := w.state
	if bound.Step == StepQuestions && bound.AreaIndex == 0 {
		w.bridge.ShowBackButton(func() {
			if w.state == bound {
				w.Close()
			}
		})
		return
	}
	w.bridge.ShowBackButton(func() {
		if w.state == bound {
			_ = w.Back()
		}
	})
}

// Close ends the app. While an unfinished evaluation holds answers the host is
// asked to confirm first. Closing cancels any identity wait or submission in
// flight.
func (w *Wizard) Close() {
	if w.closed {
		return
	}
	unfinished := w.session != nil && w.session.HasResponses() && w.state.Step != StepComplete
	if !unfinished {
		w.teardown()
		return
	}
	w.bridge.ShowConfirm("Discard this evaluation and close?", func(ok bool) {
		if ok {
			w.teardown()
		}
	})
}

func (w *Wizard) teardown() {
	if w.closed {
		return
	}
	w.closed = true
	w.stop()
	w.session = nil
	w.bridge.HideBackButton()
	w.bridge.Close()
}
