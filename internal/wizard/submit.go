package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	"selfeval/internal/backend"
	"selfeval/internal/geo"
	"selfeval/internal/host"
	"selfeval/internal/scoring"
)

// Submission is a prepared request waiting to be sent.
type Submission struct {
	Request backend.SubmissionRequest

	submitter  Submitter
	locator    geo.Locator
	geoTimeout time.Duration
	scope      func(context.Context) (context.Context, context.CancelFunc)
}

// SubmitOutcome is the result of Submission.Send.
type SubmitOutcome struct {
	Response backend.SubmissionResponse
	// Located reports whether the signature was stamped with a position.
	Located bool
	Err     error
}

// BeginSubmit validates the signature step, builds the request and enters
// Submitting. Validation failures alert the user and leave the state alone.
func (w *Wizard) BeginSubmit() (*Submission, error) {
	if err := w.guard(StepSignature); err != nil {
		return nil, err
	}
	if len(w.session.Signature) == 0 {
		w.bridge.ShowAlert("Please sign before submitting.")
		w.bridge.Haptic(host.HapticWarning)
		return nil, ErrSignatureRequired
	}
	if !validSignerName(w.session.SignerName) {
		w.bridge.ShowAlert("Please enter the signer's full name.")
		w.bridge.Haptic(host.HapticWarning)
		return nil, ErrSignerNameTooShort
	}
	if w.opts.Submitter == nil {
		return nil, errors.New("no backend configured")
	}
	w.pending = scoring.Breakdown(w.opts.Template, w.session)
	sub := &Submission{
		Request:    w.buildRequest(),
		submitter:  w.opts.Submitter,
		locator:    w.opts.Locator,
		geoTimeout: w.opts.GeoTimeout,
		scope:      w.scope,
	}
	w.submitErr = nil
	w.transition(State{Step: StepSubmitting}, host.HapticSelection)
	return sub, nil
}

// Send stamps the signature position when one arrives in time and posts the
// request. It does not touch wizard state. Closing the wizard aborts it.
func (s *Submission) Send(ctx context.Context) SubmitOutcome {
	ctx, cancel := s.scope(ctx)
	defer cancel()

	req := s.Request
	outcome := SubmitOutcome{}
	if fix, ok := geo.Within(ctx, s.locator, s.geoTimeout); ok {
		lat, lon := fix.Latitude, fix.Longitude
		req.SignatureLatitude = &lat
		req.SignatureLongitude = &lon
		outcome.Located = true
	}
	res, err := s.submitter.SubmitEvaluation(ctx, req)
	outcome.Response = res
	outcome.Err = err
	return outcome
}

// FinishSubmit applies a submission outcome. Success completes the wizard and
// discards the session; failure returns to Signature with every answer, photo
// and the signature kept, and the error available from SubmitError.
func (w *Wizard) FinishSubmit(outcome SubmitOutcome) error {
	if err := w.guard(StepSubmitting); err != nil {
		return err
	}
	if outcome.Err != nil {
		w.submitErr = outcome.Err
		w.transition(State{Step: StepSignature}, host.HapticError)
		return nil
	}
	location, _ := w.Location()
	w.result = Result{
		ID:           string(outcome.Response.ID),
		Score:        outcome.Response.TotalScore,
		Passed:       outcome.Response.Passed,
		LocationID:   w.session.LocationID,
		LocationName: location.Name,
		Answered:     w.session.AnsweredCount(),
		Photos:       len(w.session.Photos),
		SubmittedAt:  w.opts.Now(),
		Local:        w.pending,
	}
	w.session = nil
	w.transition(State{Step: StepComplete}, host.HapticSuccess)
	w.opts.Observer.OnComplete(w.result)
	return nil
}

// Submit runs BeginSubmit, Send and FinishSubmit in sequence. It returns the
// validation or submission error, if any.
func (w *Wizard) Submit(ctx context.Context) error {
	sub, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	outcome := sub.Send(ctx)
	if err := w.FinishSubmit(outcome); err != nil {
		return err
	}
	return outcome.Err
}

// SubmitErrorMessage returns the inline message for the last failed submission.
func (w *Wizard) SubmitErrorMessage() string {
	if w.submitErr == nil {
		return ""
	}
	var httpErr *backend.HTTPError
	switch {
	case errors.As(w.submitErr, &httpErr) && httpErr.Status >= 400 && httpErr.Status < 500:
		msg := "The server rejected the evaluation"
		if strings.TrimSpace(httpErr.Message) != "" {
			msg += ": " + httpErr.Message
		}
		return msg + "."
	case errors.Is(w.submitErr, context.Canceled):
		return "Sending was cancelled. Try again."
	}
	return "Could not send the evaluation. Check your connection and try again."
}

func (w *Wizard) buildRequest() backend.SubmissionRequest {
	session := w.session
	req := backend.SubmissionRequest{
		LocationID:     session.LocationID,
		TelegramUserID: w.hostUserID,
		Answers:        make(map[string]backend.AnswerPayload, len(session.Answers)),
		Photos:         make([]backend.PhotoPayload, 0, len(session.Photos)),
		SignatureData:  backend.DataURL("image/png", session.Signature),
		SignedByName:   strings.TrimSpace(session.SignerName),
		StartedAt:      session.StartedAt,
	}
	for id, answer := range session.Answers {
		if !answer.Value.IsSet() {
			continue
		}
		payload := backend.AnswerPayload{Value: answer.Value.String()}
		if answer.Photo != nil {
			payload.PhotoData = backend.DataURL(photoMime(answer.Photo.MimeType), answer.Photo.ImageData)
		}
		req.Answers[id] = payload
	}
	for _, photo := range session.Photos {
		payload := backend.PhotoPayload{
			QuestionID: photo.QuestionID,
			Data:       backend.DataURL(photoMime(photo.MimeType), photo.ImageData),
			Timestamp:  photo.CapturedAt,
		}
		if photo.Geolocation != nil {
			lat, lon := photo.Geolocation.Latitude, photo.Geolocation.Longitude
			payload.Latitude = &lat
			payload.Longitude = &lon
		}
		req.Photos = append(req.Photos, payload)
	}
	return req
}

func photoMime(mime string) string {
	if mime == "" {
		return "image/jpeg"
	}
	return mime
}
