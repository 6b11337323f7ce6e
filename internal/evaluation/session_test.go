package evaluation

import (
	"reflect"
	"testing"
	"time"

	"selfeval/internal/template"
)

func photoArea() template.Area {
	return template.Area{
		ID:     "a",
		Weight: 1,
		Questions: []template.Question{
			{ID: "q1", Text: "Shelf", Type: template.Binary, Weight: 0.5, RequiresPhoto: true},
			{ID: "q2", Text: "Cooler", Type: template.BinaryOrNA, Weight: 0.5, RequiresPhoto: true},
		},
	}
}

// TestSetAnswerIsIdempotent verifies repeating the same answer leaves the map unchanged.
func TestSetAnswerIsIdempotent(t *testing.T) {
	session := NewSession(time.Unix(0, 0))
	session.SetAnswer("q1", Yes)
	first := map[string]Answer{}
	for k, v := range session.Answers {
		first[k] = v
	}
	session.SetAnswer("q1", Yes)
	if !reflect.DeepEqual(first, session.Answers) {
		t.Fatalf("expected identical answers, got %+v vs %+v", first, session.Answers)
	}
	if len(session.Answers) != 1 {
		t.Fatalf("expected one answer, got %d", len(session.Answers))
	}
}

// TestSetAnswerKeepsPhoto verifies changing a value does not drop the attached photo.
func TestSetAnswerKeepsPhoto(t *testing.T) {
	session := NewSession(time.Unix(0, 0))
	session.SetAnswer("q2", Yes)
	session.AttachPhoto(Photo{QuestionID: "q2", ImageData: []byte{1}})
	session.SetAnswer("q2", NA)
	if _, ok := session.PhotoFor("q2"); !ok {
		t.Fatalf("expected photo to be retained after answering na")
	}
	if len(session.Photos) != 1 {
		t.Fatalf("expected photo list to keep the entry, got %d", len(session.Photos))
	}
}

// TestAttachPhotoReplacesByQuestion verifies retaking a photo leaves one entry per question.
func TestAttachPhotoReplacesByQuestion(t *testing.T) {
	session := NewSession(time.Unix(0, 0))
	session.AttachPhoto(Photo{QuestionID: "q1", ImageData: []byte("first")})
	session.AttachPhoto(Photo{QuestionID: "q2", ImageData: []byte("other")})
	session.AttachPhoto(Photo{QuestionID: "q1", ImageData: []byte("second")})

	if len(session.Photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(session.Photos))
	}
	count := 0
	for _, photo := range session.Photos {
		if photo.QuestionID == "q1" {
			count++
			if string(photo.ImageData) != "second" {
				t.Fatalf("expected list to hold the latest photo, got %q", photo.ImageData)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one q1 photo in list, got %d", count)
	}
	slot, ok := session.PhotoFor("q1")
	if !ok || string(slot.ImageData) != "second" {
		t.Fatalf("expected slot to hold the latest photo, got %+v", slot)
	}
}

// TestRemovePhoto verifies explicit removal clears the slot and the list.
func TestRemovePhoto(t *testing.T) {
	session := NewSession(time.Unix(0, 0))
	session.SetAnswer("q1", Yes)
	session.AttachPhoto(Photo{QuestionID: "q1"})
	if !session.RemovePhoto("q1") {
		t.Fatalf("expected removal to report an existing photo")
	}
	if _, ok := session.PhotoFor("q1"); ok {
		t.Fatalf("expected slot to be empty")
	}
	if len(session.Photos) != 0 {
		t.Fatalf("expected empty photo list, got %d", len(session.Photos))
	}
	if session.ValueOf("q1") != Yes {
		t.Fatalf("expected answer to survive photo removal")
	}
	if session.RemovePhoto("q1") {
		t.Fatalf("expected second removal to be a no-op")
	}
}

// TestCheckAreaRequiresPhotoForNonNA verifies the photo gate applies to yes and no answers.
func TestCheckAreaRequiresPhotoForNonNA(t *testing.T) {
	area := photoArea()
	session := NewSession(time.Unix(0, 0))
	session.SetAnswer("q1", No)
	session.SetAnswer("q2", NA)

	missing := CheckArea(area, session)
	if len(missing) != 1 || missing[0].QuestionID != "q1" || missing[0].Reason != MissingPhoto {
		t.Fatalf("expected q1 photo to be missing, got %+v", missing)
	}

	session.AttachPhoto(Photo{QuestionID: "q1"})
	if !AreaComplete(area, session) {
		t.Fatalf("expected placeholder photo to satisfy the gate, got %+v", CheckArea(area, session))
	}
}

// TestCheckAreaReportsUnanswered verifies unset questions block the gate.
func TestCheckAreaReportsUnanswered(t *testing.T) {
	area := photoArea()
	session := NewSession(time.Unix(0, 0))
	session.AttachPhoto(Photo{QuestionID: "q1"})

	missing := CheckArea(area, session)
	if len(missing) != 2 {
		t.Fatalf("expected both questions unanswered, got %+v", missing)
	}
	for _, item := range missing {
		if item.Reason != MissingAnswer {
			t.Fatalf("expected answer reason, got %+v", item)
		}
	}
	if DescribeMissing(missing) == "" {
		t.Fatalf("expected a message for missing answers")
	}
}

// TestParseValue verifies accepted spellings.
func TestParseValue(t *testing.T) {
	cases := map[string]Value{"yes": Yes, "N": No, "n/a": NA, "": Unset}
	for raw, want := range cases {
		got, err := ParseValue(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %q, got %q", raw, want, got)
		}
	}
	if _, err := ParseValue("maybe"); err == nil {
		t.Fatalf("expected error for unknown value")
	}
}
