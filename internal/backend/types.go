package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Location is a point of sale the contact may evaluate.
type Location struct {
	ID        int64    `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Address   string   `json:"address,omitempty" yaml:"address,omitempty"`
	Latitude  *float64 `json:"lat,omitempty" yaml:"lat,omitempty"`
	Longitude *float64 `json:"lon,omitempty" yaml:"lon,omitempty"`
}

// UserContext is the backend view of a host user.
type UserContext struct {
	ContactID  int64      `json:"contact_id" yaml:"contact_id"`
	Name       string     `json:"name" yaml:"name"`
	Role       string     `json:"role" yaml:"role"`
	ClientID   int64      `json:"client_id" yaml:"client_id"`
	ClientName string     `json:"client_name" yaml:"client_name"`
	Locations  []Location `json:"locations" yaml:"locations"`
}

// Location returns the location with id.
func (u UserContext) Location(id int64) (Location, bool) {
	for _, location := range u.Locations {
		if location.ID == id {
			return location, true
		}
	}
	return Location{}, false
}

// AnswerPayload is one answer in a submission.
type AnswerPayload struct {
	Value     string `json:"value"`
	PhotoData string `json:"photo_data,omitempty"`
}

// PhotoPayload is one photo in a submission.
type PhotoPayload struct {
	QuestionID string    `json:"question_id"`
	Data       string    `json:"data"`
	Timestamp  time.Time `json:"timestamp"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
}

// SubmissionRequest is the body of POST /evaluations.
type SubmissionRequest struct {
	LocationID         int64                    `json:"location_id"`
	TelegramUserID     int64                    `json:"telegram_user_id"`
	Answers            map[string]AnswerPayload `json:"answers"`
	Photos             []PhotoPayload           `json:"photos"`
	SignatureData      string                   `json:"signature_data"`
	SignedByName       string                   `json:"signed_by_name"`
	SignatureLatitude  *float64                 `json:"signature_latitude,omitempty"`
	SignatureLongitude *float64                 `json:"signature_longitude,omitempty"`
	StartedAt          time.Time                `json:"started_at"`
}

// SubmissionResponse is the backend verdict for a submission.
type SubmissionResponse struct {
	ID         EvaluationID `json:"id"`
	TotalScore float64      `json:"total_score"`
	Passed     bool         `json:"passed"`
}

// EvaluationID accepts either a JSON string or number.
type EvaluationID string

// UnmarshalJSON decodes string and numeric ids.
func (id *EvaluationID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*id = EvaluationID(text)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("evaluation id: %w", err)
	}
	if _, err := strconv.ParseFloat(number.String(), 64); err != nil {
		return fmt.Errorf("evaluation id: %w", err)
	}
	*id = EvaluationID(number.String())
	return nil
}
