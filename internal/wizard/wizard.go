// Package wizard drives a self-evaluation from identity lookup to submission.
//
// All mutations happen synchronously on the caller's goroutine. The two
// blocking phases, loading the user context and sending the submission, are
// split into a pure I/O half (FetchContext, Submission.Send) that may run
// elsewhere and an apply half (ApplyLoad, FinishSubmit) that mutates state.
package wizard

import (
	"context"
	"errors"
	"time"

	"selfeval/internal/backend"
	"selfeval/internal/evaluation"
	"selfeval/internal/geo"
	"selfeval/internal/host"
	"selfeval/internal/scoring"
	"selfeval/internal/template"
)

// Step is a wizard screen.
type Step string

const (
	StepLoading        Step = "loading"
	StepLocationSelect Step = "location_select"
	StepQuestions      Step = "questions"
	StepSignature      Step = "signature"
	StepSubmitting     Step = "submitting"
	StepComplete       Step = "complete"
	StepError          Step = "error"
)

// Interactive reports whether the step accepts back navigation.
func (s Step) Interactive() bool {
	return s == StepQuestions || s == StepSignature
}

// State identifies the current screen; AreaIndex is only meaningful on
// StepQuestions.
type State struct {
	Step      Step
	AreaIndex int
}

var (
	// ErrBusy is returned for mutations attempted while a submission is in flight.
	ErrBusy = errors.New("submission in progress")
	// ErrWrongStep is returned when an operation does not apply to the current step.
	ErrWrongStep = errors.New("operation not available on this step")
	// ErrClosed is returned after the wizard was closed.
	ErrClosed = errors.New("wizard closed")
	// ErrIdentityUnavailable means the host never reported a user identity.
	ErrIdentityUnavailable = errors.New("host identity unavailable")
	// ErrUnknownLocation means the picked location is not assigned to the user.
	ErrUnknownLocation = errors.New("location is not assigned to this user")
	// ErrUnknownQuestion means the question is not part of the current area.
	ErrUnknownQuestion = errors.New("question is not in the current area")
	// ErrInvalidValue means the value is not accepted by the question.
	ErrInvalidValue = errors.New("answer value not accepted by question")
	// ErrSignatureRequired blocks submission without a signature.
	ErrSignatureRequired = errors.New("signature is required")
	// ErrSignerNameTooShort blocks submission without a usable signer name.
	ErrSignerNameTooShort = errors.New("signer name must have at least 2 characters")
)

// MinSignerNameLength is the minimum trimmed signer name length in characters.
const MinSignerNameLength = 2

// Resolver looks up the user context for a host identity.
type Resolver interface {
	Resolve(ctx context.Context, hostUserID int64) (backend.UserContext, error)
}

// Submitter sends a finished evaluation to the backend.
type Submitter interface {
	SubmitEvaluation(ctx context.Context, req backend.SubmissionRequest) (backend.SubmissionResponse, error)
}

// Options wires a Wizard.
type Options struct {
	Template  template.Template
	Bridge    host.Bridge
	Resolver  Resolver
	Submitter Submitter
	// Locator stamps the signature with a position; nil disables it.
	Locator    geo.Locator
	GeoTimeout time.Duration
	// PollInterval and PollAttempts bound the wait for the host identity.
	PollInterval time.Duration
	PollAttempts int
	Now          func() time.Time
	Observer     Observer
}

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultPollAttempts = 30
	defaultGeoTimeout   = 5 * time.Second
)

// Result is the backend verdict for a completed evaluation.
type Result struct {
	ID           string
	Score        float64
	Passed       bool
	LocationID   int64
	LocationName string
	Answered     int
	Photos       int
	SubmittedAt  time.Time
	// Local is the score computed on the device before sending.
	Local scoring.Report
}

// Wizard is the evaluation state machine.
type Wizard struct {
	opts   Options
	bridge host.Bridge

	state      State
	session    *evaluation.Session
	user       backend.UserContext
	hostUserID int64
	loadErr    error
	submitErr  error
	result     Result
	pending    scoring.Report
	closed     bool

	life context.Context
	stop context.CancelFunc
}

// New builds a wizard in the Loading step and tells the host it is ready.
func New(opts Options) *Wizard {
	if opts.Bridge == nil {
		opts.Bridge = host.NewFallback(nil, nil, 0)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = defaultPollAttempts
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = defaultGeoTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	life, stop := context.WithCancel(context.Background())
	w := &Wizard{
		opts:   opts,
		bridge: opts.Bridge,
		state:  State{Step: StepLoading},
		life:   life,
		stop:   stop,
	}
	w.bridge.Ready()
	w.bridge.Expand()
	w.rebindBack()
	return w
}

// State returns the current screen.
func (w *Wizard) State() State {
	return w.state
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.state.Step
}

// Template returns the template being evaluated.
func (w *Wizard) Template() template.Template {
	return w.opts.Template
}

// Area returns the area shown on the Questions step.
func (w *Wizard) Area() (template.Area, bool) {
	if w.state.Step != StepQuestions {
		return template.Area{}, false
	}
	return w.opts.Template.Area(w.state.AreaIndex)
}

// Session returns the evaluation in progress, or nil before a location is
// chosen and after the session ended. Callers must not mutate it.
func (w *Wizard) Session() *evaluation.Session {
	return w.session
}

// User returns the resolved user context.
func (w *Wizard) User() backend.UserContext {
	return w.user
}

// HostUserID returns the identity reported by the host.
func (w *Wizard) HostUserID() int64 {
	return w.hostUserID
}

// Location returns the location being evaluated.
func (w *Wizard) Location() (backend.Location, bool) {
	if w.session == nil {
		return backend.Location{}, false
	}
	return w.user.Location(w.session.LocationID)
}

// LoadError returns the failure that put the wizard in the Error step.
func (w *Wizard) LoadError() error {
	return w.loadErr
}

// SubmitError returns the failure of the last submission attempt.
func (w *Wizard) SubmitError() error {
	return w.submitErr
}

// Result returns the verdict once the wizard is Complete.
func (w *Wizard) Result() (Result, bool) {
	if w.state.Step != StepComplete {
		return Result{}, false
	}
	return w.result, true
}

// Score computes the local score of the answers recorded so far.
func (w *Wizard) Score() scoring.Report {
	if w.session == nil {
		return scoring.Breakdown(w.opts.Template, scoring.Map{})
	}
	return scoring.Breakdown(w.opts.Template, w.session)
}

// Closed reports whether the wizard was closed.
func (w *Wizard) Closed() bool {
	return w.closed
}

// guard checks that op may run on one of the allowed steps.
func (w *Wizard) guard(allowed ...Step) error {
	if w.closed {
		return ErrClosed
	}
	for _, step := range allowed {
		if w.state.Step == step {
			return nil
		}
	}
	if w.state.Step == StepSubmitting {
		return ErrBusy
	}
	return ErrWrongStep
}
