package wizard

import (
	"fmt"
	"strings"

	"selfeval/internal/evaluation"
	"selfeval/internal/host"
	"selfeval/internal/template"
)

// GateError lists what keeps the current area from being complete.
type GateError struct {
	AreaID  string
	Missing []evaluation.Missing
}

// Error summarises the missing items.
func (e *GateError) Error() string {
	return fmt.Sprintf("area %s incomplete: %d item(s) missing", e.AreaID, len(e.Missing))
}

// Answer records value for a question in the current area. Repeating an
// answer replaces the previous one and keeps any attached photo.
func (w *Wizard) Answer(questionID string, value evaluation.Value) error {
	question, err := w.currentQuestion(questionID)
	if err != nil {
		return err
	}
	switch value {
	case evaluation.Yes, evaluation.No:
	case evaluation.NA:
		if !question.AllowsNA() {
			return fmt.Errorf("%w: %s does not allow na", ErrInvalidValue, questionID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	w.session.SetAnswer(question.ID, value)
	w.bridge.Haptic(host.HapticSelection)
	return nil
}

// AttachPhoto stores photo for its question, replacing any earlier one.
func (w *Wizard) AttachPhoto(photo evaluation.Photo) error {
	if _, err := w.currentQuestion(photo.QuestionID); err != nil {
		return err
	}
	w.session.AttachPhoto(photo)
	w.bridge.Haptic(host.HapticSuccess)
	return nil
}

// RemovePhoto drops the photo attached to questionID.
func (w *Wizard) RemovePhoto(questionID string) error {
	if _, err := w.currentQuestion(questionID); err != nil {
		return err
	}
	if w.session.RemovePhoto(questionID) {
		w.bridge.Haptic(host.HapticSelection)
	}
	return nil
}

func (w *Wizard) currentQuestion(questionID string) (template.Question, error) {
	if err := w.guard(StepQuestions); err != nil {
		return template.Question{}, err
	}
	area, _ := w.Area()
	for _, question := range area.Questions {
		if question.ID == questionID {
			return question, nil
		}
	}
	return template.Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
}

// Missing returns the gate failures of the current area.
func (w *Wizard) Missing() []evaluation.Missing {
	area, ok := w.Area()
	if !ok {
		return nil
	}
	return evaluation.CheckArea(area, w.session)
}

// Next advances to the following area, or to Signature from the last area,
// once the current area passes the completion gate. A failed gate alerts the
// user and returns a *GateError.
func (w *Wizard) Next() error {
	if err := w.guard(StepQuestions); err != nil {
		return err
	}
	area, _ := w.Area()
	if missing := evaluation.CheckArea(area, w.session); len(missing) > 0 {
		w.bridge.ShowAlert(evaluation.DescribeMissing(missing))
		w.bridge.Haptic(host.HapticWarning)
		return &GateError{AreaID: area.ID, Missing: missing}
	}
	if w.state.AreaIndex >= w.opts.Template.AreaCount()-1 {
		w.transition(State{Step: StepSignature}, host.HapticSelection)
		return nil
	}
	w.transition(State{Step: StepQuestions, AreaIndex: w.state.AreaIndex + 1}, host.HapticSelection)
	return nil
}

// Back moves to the previous area, or from Signature to the last area. It
// never checks the gate. On the first area there is nothing to go back to and
// ErrWrongStep is returned.
func (w *Wizard) Back() error {
	if err := w.guard(StepQuestions, StepSignature); err != nil {
		return err
	}
	switch w.state.Step {
	case StepSignature:
		w.transition(State{Step: StepQuestions, AreaIndex: w.opts.Template.AreaCount() - 1}, host.HapticSelection)
	case StepQuestions:
		if w.state.AreaIndex == 0 {
			return ErrWrongStep
		}
		w.transition(State{Step: StepQuestions, AreaIndex: w.state.AreaIndex - 1}, host.HapticSelection)
	}
	return nil
}

// Progress counts answered questions.
type Progress struct {
	AreaIndex    int
	AreaCount    int
	AreaAnswered int
	AreaTotal    int
	Answered     int
	Total        int
	Photos       int
}

// Progress reports how far the evaluation has come.
func (w *Wizard) Progress() Progress {
	progress := Progress{
		AreaIndex: w.state.AreaIndex,
		AreaCount: w.opts.Template.AreaCount(),
		Total:     w.opts.Template.QuestionCount(),
	}
	if w.session == nil {
		return progress
	}
	progress.Answered = w.session.AnsweredCount()
	progress.Photos = len(w.session.Photos)
	if area, ok := w.Area(); ok {
		progress.AreaTotal = len(area.Questions)
		for _, question := range area.Questions {
			if w.session.ValueOf(question.ID).IsSet() {
				progress.AreaAnswered++
			}
		}
	}
	return progress
}

// SetSignature stores the signature snapshot; nil clears it.
func (w *Wizard) SetSignature(png []byte) error {
	if err := w.guard(StepSignature); err != nil {
		return err
	}
	if len(png) == 0 {
		w.session.Signature = nil
		return nil
	}
	w.session.Signature = append([]byte(nil), png...)
	return nil
}

// SetSignerName stores the name typed next to the signature.
func (w *Wizard) SetSignerName(name string) error {
	if err := w.guard(StepSignature); err != nil {
		return err
	}
	w.session.SignerName = name
	return nil
}

func validSignerName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= MinSignerNameLength
}
