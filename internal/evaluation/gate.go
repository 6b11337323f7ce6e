package evaluation

import (
	"fmt"
	"strings"

	"selfeval/internal/template"
)

// MissingReason explains why a question blocks the area gate.
type MissingReason string

const (
	// MissingAnswer means the question has no set value.
	MissingAnswer MissingReason = "answer"
	// MissingPhoto means a photo is required but not attached.
	MissingPhoto MissingReason = "photo"
)

// Missing identifies a question that keeps an area from being complete.
type Missing struct {
	QuestionID string
	Text       string
	Reason     MissingReason
}

// CheckArea returns every question in area that fails the completion gate.
// A question passes when it has a set value and, if it requires a photo and was
// not answered na, a photo is attached.
func CheckArea(area template.Area, session *Session) []Missing {
	var missing []Missing
	for _, question := range area.Questions {
		answer := session.Answers[question.ID]
		if !answer.Value.IsSet() {
			missing = append(missing, Missing{QuestionID: question.ID, Text: question.Text, Reason: MissingAnswer})
			continue
		}
		if question.RequiresPhoto && answer.Value != NA && answer.Photo == nil {
			missing = append(missing, Missing{QuestionID: question.ID, Text: question.Text, Reason: MissingPhoto})
		}
	}
	return missing
}

// AreaComplete reports whether area passes the completion gate.
func AreaComplete(area template.Area, session *Session) bool {
	return len(CheckArea(area, session)) == 0
}

// DescribeMissing renders gate failures as a user-facing message.
func DescribeMissing(missing []Missing) string {
	if len(missing) == 0 {
		return ""
	}
	var answers, photos []string
	for _, item := range missing {
		switch item.Reason {
		case MissingAnswer:
			answers = append(answers, item.Text)
		case MissingPhoto:
			photos = append(photos, item.Text)
		}
	}
	parts := make([]string, 0, 2)
	if len(answers) > 0 {
		parts = append(parts, fmt.Sprintf("Answer every question (%d missing): %s", len(answers), strings.Join(answers, "; ")))
	}
	if len(photos) > 0 {
		parts = append(parts, fmt.Sprintf("Attach a photo for: %s", strings.Join(photos, "; ")))
	}
	return strings.Join(parts, "\n")
}
