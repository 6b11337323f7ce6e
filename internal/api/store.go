package api

import (
	"sort"
	"sync"
	"time"
)

// Record is an evaluation accepted by the development backend.
type Record struct {
	ID           string    `json:"id"`
	HostUserID   int64     `json:"telegram_user_id"`
	ContactID    int64     `json:"contact_id"`
	LocationID   int64     `json:"location_id"`
	TotalScore   float64   `json:"total_score"`
	Passed       bool      `json:"passed"`
	Answers      int       `json:"answers"`
	Photos       int       `json:"photos"`
	SignedByName string    `json:"signed_by_name"`
	Located      bool      `json:"signature_located"`
	StartedAt    time.Time `json:"started_at"`
	ReceivedAt   time.Time `json:"received_at"`
}

// Store keeps accepted evaluations in memory.
type Store struct {
	mu      sync.Mutex
	records []Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add stores record.
func (s *Store) Add(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
}

// List returns records newest first.
func (s *Store) List() []Record {
	s.mu.Lock()
	out := append([]Record(nil), s.records...)
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	return out
}
