package template

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWeightTolerance is the allowed drift when comparing weight sums to 1.
const DefaultWeightTolerance = 1e-6

// Issue captures a single problem found in a template.
type Issue struct {
	Field   string
	Message string
}

// ValidationError reports one or more template issues.
type ValidationError struct {
	Issues []Issue
}

// Error returns a readable message for validation failures.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return ""
	}
	parts := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return fmt.Sprintf("template validation failed: %s", strings.Join(parts, "; "))
}

type issueCollector struct {
	issues []Issue
}

func (collector *issueCollector) add(field, message string) {
	collector.issues = append(collector.issues, Issue{Field: field, Message: message})
}

func (collector *issueCollector) result() error {
	if len(collector.issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: collector.issues}
}

// Normalize trims text fields and checks the template structure.
// Weight sums are not checked here; see CheckWeights.
func Normalize(tmpl Template) (Template, error) {
	collector := &issueCollector{}
	if tmpl.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", tmpl.Version))
	}
	tmpl.Name = strings.TrimSpace(tmpl.Name)
	if tmpl.PassingThreshold < 0 || tmpl.PassingThreshold > 100 {
		collector.add("passing_threshold", "must be between 0 and 100")
	}
	if len(tmpl.Areas) == 0 {
		collector.add("areas", "must include at least one entry")
	}

	areaIDs := map[string]struct{}{}
	questionIDs := map[string]struct{}{}
	for i, area := range tmpl.Areas {
		prefix := fmt.Sprintf("areas[%d]", i)
		area.ID = strings.TrimSpace(area.ID)
		area.Name = strings.TrimSpace(area.Name)
		if area.ID == "" {
			collector.add(prefix+".id", "is required")
		} else if _, exists := areaIDs[area.ID]; exists {
			collector.add(prefix+".id", fmt.Sprintf("duplicate id %q", area.ID))
		} else {
			areaIDs[area.ID] = struct{}{}
		}
		if area.Weight < 0 {
			collector.add(prefix+".weight", "must not be negative")
		}
		for j, question := range area.Questions {
			qprefix := fmt.Sprintf("%s.questions[%d]", prefix, j)
			question.ID = strings.TrimSpace(question.ID)
			question.Text = strings.TrimSpace(question.Text)
			if question.ID == "" {
				collector.add(qprefix+".id", "is required")
			} else if _, exists := questionIDs[question.ID]; exists {
				collector.add(qprefix+".id", fmt.Sprintf("duplicate id %q", question.ID))
			} else {
				questionIDs[question.ID] = struct{}{}
			}
			if question.Text == "" {
				collector.add(qprefix+".text", "is required")
			}
			switch question.Type {
			case Binary, BinaryOrNA:
			case "":
				question.Type = Binary
			default:
				collector.add(qprefix+".type", fmt.Sprintf("unknown type %q", question.Type))
			}
			if question.Weight < 0 {
				collector.add(qprefix+".weight", "must not be negative")
			}
			area.Questions[j] = question
		}
		tmpl.Areas[i] = area
	}

	if err := collector.result(); err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

// CheckWeights reports areas whose question weights do not sum to 1 and whether
// the area weights themselves sum to 1. It is a content check for tests and
// tooling; scoring never depends on it.
func CheckWeights(tmpl Template, tolerance float64) error {
	if tolerance <= 0 {
		tolerance = DefaultWeightTolerance
	}
	collector := &issueCollector{}
	areaSum := 0.0
	for i, area := range tmpl.Areas {
		areaSum += area.Weight
		questionSum := 0.0
		for _, question := range area.Questions {
			questionSum += question.Weight
		}
		if math.Abs(questionSum-1) > tolerance {
			collector.add(fmt.Sprintf("areas[%d].questions", i), fmt.Sprintf("weights of %q sum to %g", area.ID, questionSum))
		}
	}
	if math.Abs(areaSum-1) > tolerance {
		collector.add("areas", fmt.Sprintf("weights sum to %g", areaSum))
	}
	return collector.result()
}
