//go:build cucumber

package wizard

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"selfeval/internal/backend"
	"selfeval/internal/evaluation"
	"selfeval/internal/usercontext"
)

// TestWizardScenarios runs the wizard feature scenarios.
func TestWizardScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "wizard",
		ScenarioInitializer: InitializeWizardScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("..", "..", "features", "wizard.feature")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeWizardScenario wires steps for the wizard scenarios.
func InitializeWizardScenario(ctx *godog.ScenarioContext) {
	state := &wizardScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if state.fixture != nil {
			state.fixture.wizard.Close()
		}
		return ctx, err
	})

	ctx.Step(`^a contact with (\d+) locations?$`, state.givenContactWithLocations)
	ctx.Step(`^a user whose lookup fails with "([^"]+)"$`, state.givenFailingLookup)
	ctx.Step(`^the wizard loads$`, state.whenTheWizardLoads)
	ctx.Step(`^I choose location (\d+)$`, state.whenIChooseLocation)
	ctx.Step(`^I answer "([^"]+)" with "([^"]+)"$`, state.whenIAnswer)
	ctx.Step(`^I press next$`, state.whenIPressNext)
	ctx.Step(`^the first area is complete$`, state.givenFirstAreaComplete)
	ctx.Step(`^I press the host back button$`, state.whenIPressHostBack)
	ctx.Step(`^I sign as "([^"]+)"$`, state.whenISignAs)
	ctx.Step(`^I submit$`, state.whenISubmit)
	ctx.Step(`^the wizard is on "([^"]+)"$`, state.thenStep)
	ctx.Step(`^the wizard is on "([^"]+)" at area (\d+)$`, state.thenStepAtArea)
	ctx.Step(`^the load error kind is "([^"]+)"$`, state.thenLoadErrorKind)
	ctx.Step(`^the host shows an alert containing "([^"]+)"$`, state.thenAlertContains)
	ctx.Step(`^the answer to "([^"]+)" is "([^"]+)"$`, state.thenAnswerIs)
	ctx.Step(`^the evaluation id is "([^"]+)"$`, state.thenEvaluationID)
	ctx.Step(`^the request carries (\d+) answers and (\d+) photos?$`, state.thenRequestCarries)
}

// wizardScenarioState holds the wizard under test for one scenario.
type wizardScenarioState struct {
	fixture *fixture
}

func (s *wizardScenarioState) reset() {
	s.fixture = nil
}

func (s *wizardScenarioState) givenContactWithLocations(count int) error {
	uc := backend.UserContext{ContactID: 1, Name: "Ana"}
	for i := 0; i < count; i++ {
		id := int64(10 + i)
		uc.Locations = append(uc.Locations, backend.Location{ID: id, Name: fmt.Sprintf("Store %d", id)})
	}
	s.fixture = newFixture(twoAreaTemplate(), uc)
	return nil
}

func (s *wizardScenarioState) givenFailingLookup(kind string) error {
	s.fixture = newFixture(twoAreaTemplate(), backend.UserContext{})
	switch usercontext.ErrorKind(kind) {
	case usercontext.KindNotLinked:
		s.fixture.resolver.err = usercontext.ErrNotLinked
	case usercontext.KindNoLocations:
		s.fixture.resolver.err = usercontext.ErrNoLocationsAssigned
	case usercontext.KindTransient:
		s.fixture.resolver.err = &usercontext.TransientError{Err: errors.New("connection reset")}
	default:
		return fmt.Errorf("unknown error kind %q", kind)
	}
	return nil
}

func (s *wizardScenarioState) whenTheWizardLoads() error {
	if s.fixture == nil {
		return errors.New("no user configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.fixture.wizard.Load(ctx)
	return nil
}

func (s *wizardScenarioState) whenIChooseLocation(id int) error {
	return s.fixture.wizard.SelectLocation(int64(id))
}

func (s *wizardScenarioState) whenIAnswer(questionID, raw string) error {
	value, err := evaluation.ParseValue(raw)
	if err != nil {
		return err
	}
	return s.fixture.wizard.Answer(questionID, value)
}

// whenIPressNext tolerates gate failures; the following steps assert them.
func (s *wizardScenarioState) whenIPressNext() error {
	var gate *GateError
	if err := s.fixture.wizard.Next(); err != nil && !errors.As(err, &gate) {
		return err
	}
	return nil
}

func (s *wizardScenarioState) givenFirstAreaComplete() error {
	w := s.fixture.wizard
	for _, err := range []error{
		w.Answer("a1.q1", evaluation.Yes),
		w.AttachPhoto(photo("a1.q1")),
		w.Answer("a1.q2", evaluation.No),
		w.Next(),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *wizardScenarioState) whenIPressHostBack() error {
	if !s.fixture.bridge.PressBack() {
		return errors.New("host back button is hidden")
	}
	return nil
}

func (s *wizardScenarioState) whenISignAs(name string) error {
	if err := s.fixture.wizard.SetSignature([]byte("png")); err != nil {
		return err
	}
	return s.fixture.wizard.SetSignerName(name)
}

// whenISubmit tolerates validation failures; the following steps assert them.
func (s *wizardScenarioState) whenISubmit() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.fixture.wizard.Submit(ctx)
	if err != nil && !errors.Is(err, ErrSignatureRequired) && !errors.Is(err, ErrSignerNameTooShort) {
		return err
	}
	return nil
}

func (s *wizardScenarioState) thenStep(step string) error {
	if got := s.fixture.wizard.Step(); got != Step(step) {
		return fmt.Errorf("expected step %q, got %q", step, got)
	}
	return nil
}

func (s *wizardScenarioState) thenStepAtArea(step string, area int) error {
	want := State{Step: Step(step), AreaIndex: area - 1}
	if got := s.fixture.wizard.State(); got != want {
		return fmt.Errorf("expected %+v, got %+v", want, got)
	}
	return nil
}

func (s *wizardScenarioState) thenLoadErrorKind(kind string) error {
	if got := s.fixture.wizard.ErrorKind(); got != usercontext.ErrorKind(kind) {
		return fmt.Errorf("expected error kind %q, got %q", kind, got)
	}
	if s.fixture.wizard.ErrorMessage() == "" {
		return errors.New("expected an error message")
	}
	return nil
}

func (s *wizardScenarioState) thenAlertContains(text string) error {
	if alert := s.fixture.bridge.LastAlert(); !strings.Contains(alert, text) {
		return fmt.Errorf("expected alert containing %q, got %q", text, alert)
	}
	return nil
}

func (s *wizardScenarioState) thenAnswerIs(questionID, raw string) error {
	want, err := evaluation.ParseValue(raw)
	if err != nil {
		return err
	}
	if got := s.fixture.wizard.Session().ValueOf(questionID); got != want {
		return fmt.Errorf("expected %s=%s, got %s", questionID, want, got)
	}
	return nil
}

func (s *wizardScenarioState) thenEvaluationID(id string) error {
	result, ok := s.fixture.wizard.Result()
	if !ok {
		return errors.New("no result recorded")
	}
	if result.ID != id {
		return fmt.Errorf("expected evaluation %q, got %q", id, result.ID)
	}
	return nil
}

func (s *wizardScenarioState) thenRequestCarries(answers, photos int) error {
	reqs := s.fixture.submitter.reqs
	if len(reqs) != 1 {
		return fmt.Errorf("expected 1 request, got %d", len(reqs))
	}
	if len(reqs[0].Answers) != answers || len(reqs[0].Photos) != photos {
		return fmt.Errorf("expected %d answers and %d photos, got %d and %d", answers, photos, len(reqs[0].Answers), len(reqs[0].Photos))
	}
	return nil
}
