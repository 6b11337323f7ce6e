package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"selfeval/internal/backend"
	"selfeval/internal/evaluation"
	"selfeval/internal/host"
	"selfeval/internal/usercontext"
)

// LoadOutcome is the result of FetchContext.
type LoadOutcome struct {
	HostUserID int64
	Context    backend.UserContext
	Err        error
}

// Load waits for the host identity, resolves the user context and applies the
// outcome.
func (w *Wizard) Load(ctx context.Context) error {
	outcome := w.FetchContext(ctx)
	if err := w.ApplyLoad(outcome); err != nil {
		return err
	}
	return outcome.Err
}

// FetchContext performs the blocking half of Load without touching wizard
// state. It polls the host for an identity at a fixed interval, up to the
// configured number of attempts, then resolves it once. It stops early when
// ctx is done or the wizard is closed.
func (w *Wizard) FetchContext(ctx context.Context) LoadOutcome {
	ctx, cancel := w.scope(ctx)
	defer cancel()

	id, err := w.awaitIdentity(ctx)
	if err != nil {
		return LoadOutcome{Err: err}
	}
	if w.opts.Resolver == nil {
		return LoadOutcome{HostUserID: id, Err: &usercontext.TransientError{Err: errors.New("no backend configured")}}
	}
	uc, err := w.opts.Resolver.Resolve(ctx, id)
	return LoadOutcome{HostUserID: id, Context: uc, Err: err}
}

func (w *Wizard) awaitIdentity(ctx context.Context) (int64, error) {
	for attempt := 0; attempt < w.opts.PollAttempts; attempt++ {
		if id, ok := w.bridge.UserID(); ok {
			return id, nil
		}
		if attempt == w.opts.PollAttempts-1 {
			break
		}
		timer := time.NewTimer(w.opts.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
	}
	return 0, fmt.Errorf("%w after %d attempts", ErrIdentityUnavailable, w.opts.PollAttempts)
}

// ApplyLoad moves the wizard out of Loading. Failures land on Error; a single
// assigned location skips LocationSelect.
func (w *Wizard) ApplyLoad(outcome LoadOutcome) error {
	if err := w.guard(StepLoading); err != nil {
		return err
	}
	w.hostUserID = outcome.HostUserID
	if outcome.Err != nil {
		w.loadErr = outcome.Err
		w.transition(State{Step: StepError}, host.HapticError)
		return nil
	}
	w.user = outcome.Context
	if len(w.user.Locations) == 0 {
		w.loadErr = usercontext.ErrNoLocationsAssigned
		w.transition(State{Step: StepError}, host.HapticError)
		return nil
	}
	if len(w.user.Locations) == 1 {
		w.startSession(w.user.Locations[0].ID)
		w.transition(State{Step: StepQuestions, AreaIndex: 0}, host.HapticSuccess)
		return nil
	}
	w.transition(State{Step: StepLocationSelect}, host.HapticSuccess)
	return nil
}

// SelectLocation starts the evaluation for one of the assigned locations.
func (w *Wizard) SelectLocation(id int64) error {
	if err := w.guard(StepLocationSelect); err != nil {
		return err
	}
	if _, ok := w.user.Location(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLocation, id)
	}
	w.startSession(id)
	w.transition(State{Step: StepQuestions, AreaIndex: 0}, host.HapticSelection)
	return nil
}

func (w *Wizard) startSession(locationID int64) {
	w.session = evaluation.NewSession(w.opts.Now())
	w.session.LocationID = locationID
}

// ErrorMessage returns the user-facing text for the Error step.
func (w *Wizard) ErrorMessage() string {
	if w.loadErr == nil {
		return ""
	}
	if errors.Is(w.loadErr, ErrIdentityUnavailable) {
		return "We could not identify you. Open this app from the chat and try again."
	}
	if errors.Is(w.loadErr, context.Canceled) {
		return "Loading was cancelled."
	}
	return usercontext.Message(w.loadErr)
}

// ErrorKind classifies the load failure.
func (w *Wizard) ErrorKind() usercontext.ErrorKind {
	return usercontext.Kind(w.loadErr)
}

// scope derives a context that also ends when the wizard closes.
func (w *Wizard) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(w.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
