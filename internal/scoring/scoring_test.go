package scoring

import (
	"math"
	"testing"

	"selfeval/internal/evaluation"
	"selfeval/internal/template"
)

// TestAllYesScoresFullMarks verifies a fully compliant answer set on the bundled template.
func TestAllYesScoresFullMarks(t *testing.T) {
	tmpl := template.Default()
	answers := Map{}
	for _, area := range tmpl.Areas {
		for _, question := range area.Questions {
			answers[question.ID] = evaluation.Yes
		}
	}
	score := OverallScore(tmpl, answers)
	if score != 100 {
		t.Fatalf("expected 100, got %v", score)
	}
	if !Passed(score, tmpl.PassingThreshold) {
		t.Fatalf("expected pass at threshold %v", tmpl.PassingThreshold)
	}
}

// TestAllNAAreaContributesFullWeight verifies the vacuous-compliance policy.
func TestAllNAAreaContributesFullWeight(t *testing.T) {
	tmpl := template.Template{
		PassingThreshold: 70,
		Areas: []template.Area{
			{ID: "a1", Weight: 0.35, Questions: []template.Question{
				{ID: "a1.q1", Type: template.BinaryOrNA, Weight: 0.6},
				{ID: "a1.q2", Type: template.BinaryOrNA, Weight: 0.4},
			}},
			{ID: "a2", Weight: 0.65, Questions: []template.Question{
				{ID: "a2.q1", Type: template.Binary, Weight: 1},
			}},
		},
	}
	answers := Map{"a1.q1": evaluation.NA, "a1.q2": evaluation.NA, "a2.q1": evaluation.Yes}
	if got := AreaScore(tmpl.Areas[0], answers); got != 1 {
		t.Fatalf("expected all-na area score 1, got %v", got)
	}
	if got := OverallScore(tmpl, answers); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

// TestNAExcludedFromDenominator verifies na weight is redistributed over the rest.
func TestNAExcludedFromDenominator(t *testing.T) {
	area := template.Area{Weight: 1, Questions: []template.Question{
		{ID: "q1", Weight: 0.5},
		{ID: "q2", Weight: 0.3},
		{ID: "q3", Type: template.BinaryOrNA, Weight: 0.2},
	}}
	answers := Map{"q1": evaluation.Yes, "q2": evaluation.No, "q3": evaluation.NA}
	got := AreaScore(area, answers)
	if math.Abs(got-0.625) > 1e-9 {
		t.Fatalf("expected 0.625, got %v", got)
	}
}

// TestUnsetCountsAsNo verifies unanswered questions reaching scoring count against it.
func TestUnsetCountsAsNo(t *testing.T) {
	area := template.Area{Weight: 1, Questions: []template.Question{
		{ID: "q1", Weight: 0.5},
		{ID: "q2", Weight: 0.5},
	}}
	if got := AreaScore(area, Map{"q1": evaluation.Yes}); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

// TestSingleAreaScenario verifies the one-area, two-question example scores 50 and fails.
func TestSingleAreaScenario(t *testing.T) {
	tmpl := template.Template{
		PassingThreshold: 70,
		Areas: []template.Area{{ID: "a", Weight: 1, Questions: []template.Question{
			{ID: "q1", Weight: 0.5, RequiresPhoto: true},
			{ID: "q2", Weight: 0.5},
		}}},
	}
	report := Breakdown(tmpl, Map{"q1": evaluation.Yes, "q2": evaluation.No})
	if report.Areas[0].Score != 0.5 {
		t.Fatalf("expected area score 0.5, got %v", report.Areas[0].Score)
	}
	if report.Score != 50 {
		t.Fatalf("expected overall 50, got %v", report.Score)
	}
	if report.Passed {
		t.Fatalf("expected failure at threshold 70")
	}
	if report.Areas[0].Answered != 2 || report.Areas[0].Total != 2 {
		t.Fatalf("unexpected counts: %+v", report.Areas[0])
	}
}

// TestOverallScoreRounds verifies two-decimal rounding of the percentage.
func TestOverallScoreRounds(t *testing.T) {
	tmpl := template.Template{Areas: []template.Area{{Weight: 1, Questions: []template.Question{
		{ID: "q1", Weight: 1},
		{ID: "q2", Weight: 1},
		{ID: "q3", Weight: 1},
	}}}}
	got := OverallScore(tmpl, Map{"q1": evaluation.Yes})
	if got != 33.33 {
		t.Fatalf("expected 33.33, got %v", got)
	}
}

// TestSessionSatisfiesAnswers verifies the session can be scored directly.
func TestSessionSatisfiesAnswers(t *testing.T) {
	var _ Answers = (*evaluation.Session)(nil)
}
