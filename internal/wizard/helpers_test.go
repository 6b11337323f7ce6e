package wizard

import (
	"context"
	"sync"
	"time"

	"selfeval/internal/backend"
	"selfeval/internal/evaluation"
	"selfeval/internal/template"
	"selfeval/internal/testutil"
)

type stubResolver struct {
	ctx   backend.UserContext
	err   error
	calls int
}

func (r *stubResolver) Resolve(_ context.Context, _ int64) (backend.UserContext, error) {
	r.calls++
	return r.ctx, r.err
}

type stubSubmitter struct {
	mu   sync.Mutex
	res  backend.SubmissionResponse
	err  error
	reqs []backend.SubmissionRequest
}

func (s *stubSubmitter) SubmitEvaluation(_ context.Context, req backend.SubmissionRequest) (backend.SubmissionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs = append(s.reqs, req)
	return s.res, s.err
}

type recordingObserver struct {
	transitions []State
	results     []Result
}

func (o *recordingObserver) OnTransition(_, to State) { o.transitions = append(o.transitions, to) }
func (o *recordingObserver) OnComplete(result Result) { o.results = append(o.results, result) }

func oneLocation() backend.UserContext {
	return backend.UserContext{ContactID: 1, Name: "Ana", Locations: []backend.Location{{ID: 10, Name: "Store 10"}}}
}

func twoLocations() backend.UserContext {
	return backend.UserContext{ContactID: 1, Name: "Ana", Locations: []backend.Location{{ID: 10, Name: "Store 10"}, {ID: 11, Name: "Store 11"}}}
}

// twoAreaTemplate has a photo-required question in the first area and an
// na-capable question in the second.
func twoAreaTemplate() template.Template {
	return template.Template{
		Version:          1,
		PassingThreshold: 70,
		Areas: []template.Area{
			{ID: "a1", Name: "Display", Weight: 0.5, Questions: []template.Question{
				{ID: "a1.q1", Text: "Planogram", Type: template.Binary, Required: true, Weight: 0.5, RequiresPhoto: true},
				{ID: "a1.q2", Text: "Facing", Type: template.Binary, Required: true, Weight: 0.5},
			}},
			{ID: "a2", Name: "Hygiene", Weight: 0.5, Questions: []template.Question{
				{ID: "a2.q1", Text: "Clean", Type: template.BinaryOrNA, Required: true, Weight: 1},
			}},
		},
	}
}

type fixture struct {
	wizard    *Wizard
	bridge    *testutil.FakeBridge
	resolver  *stubResolver
	submitter *stubSubmitter
	observer  *recordingObserver
}

func newFixture(tmpl template.Template, uc backend.UserContext) *fixture {
	f := &fixture{
		bridge:    testutil.NewFakeBridge(42),
		resolver:  &stubResolver{ctx: uc},
		submitter: &stubSubmitter{res: backend.SubmissionResponse{ID: "ev-1", TotalScore: 100, Passed: true}},
		observer:  &recordingObserver{},
	}
	clock := testutil.NewFakeClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	f.wizard = New(Options{
		Template:     tmpl,
		Bridge:       f.bridge,
		Resolver:     f.resolver,
		Submitter:    f.submitter,
		PollInterval: time.Millisecond,
		PollAttempts: 5,
		GeoTimeout:   10 * time.Millisecond,
		Now:          clock.Now,
		Observer:     f.observer,
	})
	return f
}

func photo(questionID string) evaluation.Photo {
	return evaluation.Photo{QuestionID: questionID, ImageData: []byte("jpeg"), MimeType: "image/jpeg"}
}
