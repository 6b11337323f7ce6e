package ledger

import (
	"context"
	"time"

	"selfeval/internal/verbose"
	"selfeval/internal/wizard"
)

// Recorder stores completed evaluations reported by a wizard. Failures are
// logged and never surface to the wizard.
type Recorder struct {
	ledger  *Ledger
	logger  *verbose.Logger
	timeout time.Duration
}

// NewRecorder returns a wizard observer backed by ledger.
func NewRecorder(ledger *Ledger, logger *verbose.Logger) *Recorder {
	return &Recorder{ledger: ledger, logger: logger, timeout: 5 * time.Second}
}

// OnTransition is unused.
func (r *Recorder) OnTransition(wizard.State, wizard.State) {}

// OnComplete records result.
func (r *Recorder) OnComplete(result wizard.Result) {
	if r == nil || r.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	entry := Entry{
		EvaluationID: result.ID,
		LocationID:   result.LocationID,
		LocationName: result.LocationName,
		Score:        result.Score,
		LocalScore:   result.Local.Score,
		Passed:       result.Passed,
		Answered:     result.Answered,
		Photos:       result.Photos,
		SubmittedAt:  result.SubmittedAt,
	}
	for _, area := range result.Local.Areas {
		entry.Areas = append(entry.Areas, AreaScore{ID: area.ID, Score: area.Score})
	}
	id, err := r.ledger.Record(ctx, entry)
	if err != nil {
		r.logger.Warnf("ledger: %v", err)
		return
	}
	r.logger.Debugf("ledger: recorded evaluation %s as %s", result.ID, id)
}
