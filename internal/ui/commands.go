package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"selfeval/internal/capture"
	"selfeval/internal/evaluation"
	"selfeval/internal/geo"
	"selfeval/internal/wizard"
)

// loadedMsg carries the user context lookup result.
type loadedMsg struct {
	outcome wizard.LoadOutcome
}

// photoMsg carries a finished photo capture.
type photoMsg struct {
	questionID string
	photo      evaluation.Photo
	err        error
}

// submittedMsg carries the submission result.
type submittedMsg struct {
	outcome wizard.SubmitOutcome
}

// loadContext waits for the host identity and resolves the user context.
func loadContext(ctx context.Context, w *wizard.Wizard) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{outcome: w.FetchContext(ctx)}
	}
}

// takePhoto acquires and stamps a photo for questionID.
func takePhoto(ctx context.Context, questionID string, camera capture.Camera, locator geo.Locator, opts capture.PhotoOptions) tea.Cmd {
	return func() tea.Msg {
		photo, err := capture.TakePhoto(ctx, questionID, camera, locator, opts)
		return photoMsg{questionID: questionID, photo: photo, err: err}
	}
}

// sendSubmission posts a prepared submission.
func sendSubmission(ctx context.Context, sub *wizard.Submission) tea.Cmd {
	return func() tea.Msg {
		return submittedMsg{outcome: sub.Send(ctx)}
	}
}

func matches(msg tea.KeyMsg, bindings ...key.Binding) bool {
	return key.Matches(msg, bindings...)
}
