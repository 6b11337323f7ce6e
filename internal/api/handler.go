// Package api is a development stand-in for the evaluation backend.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"selfeval/internal/backend"
	"selfeval/internal/evaluation"
	"selfeval/internal/scoring"
	"selfeval/internal/template"
	"selfeval/internal/verbose"
)

// Limits on decoded submission content.
const (
	maxBodyBytes      = 64 << 20
	maxPhotoBytes     = 10 << 20
	maxSignatureBytes = 2 << 20
)

var photoMimes = []string{"image/jpeg", "image/png", "image/webp"}

// Config wires dependencies for the HTTP handler.
type Config struct {
	Template  template.Template
	Directory Directory
	Store     *Store
	Now       func() time.Time
	NewID     func() string
	Logger    *verbose.Logger
}

// NewHandler builds the development backend handler.
func NewHandler(cfg Config) http.Handler {
	h := &handler{
		tmpl:      cfg.Template,
		directory: cfg.Directory,
		store:     cfg.Store,
		nowFn:     cfg.Now,
		newID:     cfg.NewID,
		logger:    cfg.Logger,
	}
	if h.store == nil {
		h.store = NewStore()
	}
	if h.nowFn == nil {
		h.nowFn = time.Now
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}
	if h.logger == nil {
		h.logger = verbose.Discard()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/user-context/", h.handleUserContext)
	mux.HandleFunc("/evaluations", h.handleEvaluations)
	return mux
}

type handler struct {
	tmpl      template.Template
	directory Directory
	store     *Store
	nowFn     func() time.Time
	newID     func() string
	logger    *verbose.Logger
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleUserContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/user-context/"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_user_id")
		return
	}
	uc, ok := h.directory.Lookup(id)
	if !ok {
		h.logger.Debugf("user-context %d: not linked", id)
		writeError(w, http.StatusNotFound, "not_linked")
		return
	}
	writeJSON(w, http.StatusOK, uc)
}

func (h *handler) handleEvaluations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleSubmit(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string][]Record{"evaluations": h.store.List()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	var req backend.SubmissionRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	uc, ok := h.directory.Lookup(req.TelegramUserID)
	if !ok {
		writeError(w, http.StatusForbidden, "not_linked")
		return
	}
	if _, ok := uc.Location(req.LocationID); !ok {
		writeError(w, http.StatusForbidden, "location_not_assigned")
		return
	}
	answers, err := h.validateSubmission(req)
	if err != nil {
		h.logger.Warnf("reject evaluation from %d: %v", req.TelegramUserID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	report := scoring.Breakdown(h.tmpl, answers)
	record := Record{
		ID:           h.newID(),
		HostUserID:   req.TelegramUserID,
		ContactID:    uc.ContactID,
		LocationID:   req.LocationID,
		TotalScore:   report.Score,
		Passed:       report.Passed,
		Answers:      len(answers),
		Photos:       len(req.Photos),
		SignedByName: strings.TrimSpace(req.SignedByName),
		Located:      req.SignatureLatitude != nil && req.SignatureLongitude != nil,
		StartedAt:    req.StartedAt,
		ReceivedAt:   h.nowFn(),
	}
	h.store.Add(record)
	h.logger.Infof("evaluation %s for location %d scored %.2f", record.ID, record.LocationID, record.TotalScore)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          record.ID,
		"total_score": record.TotalScore,
		"passed":      record.Passed,
	})
}

// validateSubmission checks the submission against the template and returns
// its answers. Error texts double as API error codes.
func (h *handler) validateSubmission(req backend.SubmissionRequest) (scoring.Map, error) {
	answers := scoring.Map{}
	for id, payload := range req.Answers {
		question, ok := h.tmpl.Question(id)
		if !ok {
			return nil, fmt.Errorf("unknown_question: %s", id)
		}
		value, err := evaluation.ParseValue(payload.Value)
		if err != nil || !value.IsSet() || (value == evaluation.NA && !question.AllowsNA()) {
			return nil, fmt.Errorf("invalid_answer: %s", id)
		}
		if payload.PhotoData != "" {
			if _, _, err := backend.ParseDataURL(payload.PhotoData, photoMimes, maxPhotoBytes); err != nil {
				return nil, fmt.Errorf("invalid_photo: %s", id)
			}
		}
		answers[id] = value
	}
	photographed := map[string]bool{}
	for id, payload := range req.Answers {
		if payload.PhotoData != "" {
			photographed[id] = true
		}
	}
	for _, photo := range req.Photos {
		if _, ok := h.tmpl.Question(photo.QuestionID); !ok {
			return nil, fmt.Errorf("unknown_question: %s", photo.QuestionID)
		}
		if _, _, err := backend.ParseDataURL(photo.Data, photoMimes, maxPhotoBytes); err != nil {
			return nil, fmt.Errorf("invalid_photo: %s", photo.QuestionID)
		}
		photographed[photo.QuestionID] = true
	}
	for _, area := range h.tmpl.Areas {
		for _, question := range area.Questions {
			value := answers.ValueOf(question.ID)
			if question.Required && !value.IsSet() {
				return nil, fmt.Errorf("missing_answer: %s", question.ID)
			}
			if question.RequiresPhoto && value.IsSet() && value != evaluation.NA && !photographed[question.ID] {
				return nil, fmt.Errorf("missing_photo: %s", question.ID)
			}
		}
	}
	if _, _, err := backend.ParseDataURL(req.SignatureData, []string{"image/png"}, maxSignatureBytes); err != nil {
		return nil, errors.New("invalid_signature")
	}
	if len([]rune(strings.TrimSpace(req.SignedByName))) < 2 {
		return nil, errors.New("invalid_signer_name")
	}
	return answers, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"encode_failed"}`)
	}
	writeBytes(w, status, data)
}

func writeBytes(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(payload)
}
