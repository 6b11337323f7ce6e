// Package scoring computes weighted compliance scores from evaluation answers.
//
// Points per answer: yes is 1, no is 0, na is excluded from the denominator and
// unset counts as no. An area whose questions are all na (or that has no
// questions) is vacuously compliant and scores 1.
package scoring

import (
	"math"

	"selfeval/internal/evaluation"
	"selfeval/internal/template"
)

// Answers supplies the recorded value for a question id.
type Answers interface {
	ValueOf(questionID string) evaluation.Value
}

// Map adapts a plain value map to Answers.
type Map map[string]evaluation.Value

// ValueOf returns the value for questionID, or Unset.
func (m Map) ValueOf(questionID string) evaluation.Value {
	return m[questionID]
}

// AreaScore returns the weighted compliance of area in [0,1].
func AreaScore(area template.Area, answers Answers) float64 {
	var earned, possible float64
	for _, question := range area.Questions {
		value := answers.ValueOf(question.ID)
		if value == evaluation.NA {
			continue
		}
		possible += question.Weight
		if value == evaluation.Yes {
			earned += question.Weight
		}
	}
	if possible == 0 {
		return 1
	}
	return earned / possible
}

// OverallScore returns the area-weighted compliance percentage in [0,100],
// rounded to two decimals.
func OverallScore(tmpl template.Template, answers Answers) float64 {
	total := 0.0
	for _, area := range tmpl.Areas {
		total += area.Weight * AreaScore(area, answers)
	}
	return round2(clamp(total*100, 0, 100))
}

// Passed reports whether score meets threshold.
func Passed(score, threshold float64) bool {
	return score >= threshold
}

// AreaResult is the scored outcome of one area.
type AreaResult struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	Score    float64 `json:"score"`
	Answered int     `json:"answered"`
	NA       int     `json:"na"`
	Total    int     `json:"total"`
}

// Report is a full score breakdown.
type Report struct {
	Areas     []AreaResult `json:"areas"`
	Score     float64      `json:"score"`
	Threshold float64      `json:"threshold"`
	Passed    bool         `json:"passed"`
}

// Breakdown scores every area and the overall result.
func Breakdown(tmpl template.Template, answers Answers) Report {
	report := Report{
		Areas:     make([]AreaResult, 0, len(tmpl.Areas)),
		Threshold: tmpl.PassingThreshold,
	}
	for _, area := range tmpl.Areas {
		result := AreaResult{
			ID:     area.ID,
			Name:   area.Name,
			Weight: area.Weight,
			Score:  AreaScore(area, answers),
			Total:  len(area.Questions),
		}
		for _, question := range area.Questions {
			value := answers.ValueOf(question.ID)
			if value.IsSet() {
				result.Answered++
			}
			if value == evaluation.NA {
				result.NA++
			}
		}
		report.Areas = append(report.Areas, result)
	}
	report.Score = OverallScore(tmpl, answers)
	report.Passed = Passed(report.Score, tmpl.PassingThreshold)
	return report
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}
