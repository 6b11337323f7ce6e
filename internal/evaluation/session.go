package evaluation

import (
	"time"
)

// Geolocation is a best-effort device position.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// Photo is watermarked evidence attached to a single question.
type Photo struct {
	QuestionID  string
	ImageData   []byte
	MimeType    string
	CapturedAt  time.Time
	Geolocation *Geolocation
}

// Answer is the response recorded for a question plus its optional photo.
type Answer struct {
	Value Value
	Photo *Photo
}

// Session is the mutable state of one evaluation in progress.
type Session struct {
	LocationID int64
	AreaIndex  int
	Answers    map[string]Answer
	Photos     []Photo
	Signature  []byte
	SignerName string
	StartedAt  time.Time
}

// NewSession returns an empty session started at the given time.
func NewSession(startedAt time.Time) *Session {
	return &Session{
		Answers:   map[string]Answer{},
		StartedAt: startedAt,
	}
}

// SetAnswer records value for questionID, replacing any prior value.
// An attached photo is kept.
func (s *Session) SetAnswer(questionID string, value Value) {
	answer := s.Answers[questionID]
	answer.Value = value
	s.Answers[questionID] = answer
}

// ValueOf returns the recorded value for questionID, or Unset.
func (s *Session) ValueOf(questionID string) Value {
	return s.Answers[questionID].Value
}

// PhotoFor returns the photo attached to questionID.
func (s *Session) PhotoFor(questionID string) (Photo, bool) {
	answer, ok := s.Answers[questionID]
	if !ok || answer.Photo == nil {
		return Photo{}, false
	}
	return *answer.Photo, true
}

// AttachPhoto stores photo for its question, replacing any earlier photo in both
// the answer slot and the photo list.
func (s *Session) AttachPhoto(photo Photo) {
	stored := photo
	answer := s.Answers[photo.QuestionID]
	answer.Photo = &stored
	s.Answers[photo.QuestionID] = answer

	for i := range s.Photos {
		if s.Photos[i].QuestionID == photo.QuestionID {
			s.Photos[i] = photo
			return
		}
	}
	s.Photos = append(s.Photos, photo)
}

// RemovePhoto drops the photo for questionID and reports whether one existed.
func (s *Session) RemovePhoto(questionID string) bool {
	answer, ok := s.Answers[questionID]
	if !ok || answer.Photo == nil {
		return false
	}
	answer.Photo = nil
	if answer.Value == Unset {
		delete(s.Answers, questionID)
	} else {
		s.Answers[questionID] = answer
	}
	filtered := s.Photos[:0]
	for _, photo := range s.Photos {
		if photo.QuestionID != questionID {
			filtered = append(filtered, photo)
		}
	}
	s.Photos = filtered
	return true
}

// AnsweredCount returns how many questions hold a set value.
func (s *Session) AnsweredCount() int {
	count := 0
	for _, answer := range s.Answers {
		if answer.Value.IsSet() {
			count++
		}
	}
	return count
}

// HasResponses reports whether the user has entered anything worth confirming
// before discarding.
func (s *Session) HasResponses() bool {
	return s.AnsweredCount() > 0 || len(s.Photos) > 0 || len(s.Signature) > 0
}

// Values returns a snapshot of the set values keyed by question id.
func (s *Session) Values() map[string]Value {
	out := make(map[string]Value, len(s.Answers))
	for id, answer := range s.Answers {
		if answer.Value.IsSet() {
			out[id] = answer.Value
		}
	}
	return out
}

// Reset clears every answer, photo and signature while keeping the location.
func (s *Session) Reset(startedAt time.Time) {
	s.AreaIndex = 0
	s.Answers = map[string]Answer{}
	s.Photos = nil
	s.Signature = nil
	s.SignerName = ""
	s.StartedAt = startedAt
}
