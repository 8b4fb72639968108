package structs

// SyncOutcome summarizes a whole delivery's reconciliation result.
type SyncOutcome string

const (
	OutcomeSynced  SyncOutcome = "synced"
	OutcomePartial SyncOutcome = "partial"
	OutcomeFailed  SyncOutcome = "failed"
	OutcomeSkipped SyncOutcome = "skipped"
)

// SyncStep records one sub-step of the reconciliation pipeline. Key is the
// identifying handle/SKU/src so a failed line can be traced without replaying
// the delivery.
type SyncStep struct {
	Step    string `json:"step"`
	Key     string `json:"key,omitempty"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SyncReport collects the per-step results of a single webhook delivery.
// The pipeline has no rollback; the report is the record of which steps a
// partially-applied sync still owes to the next delivery.
type SyncReport struct {
	Topic     string     `json:"topic"`
	ProductID int64      `json:"product_id"`
	Handle    string     `json:"handle"`
	Created   bool       `json:"created"`
	Steps     []SyncStep `json:"steps"`
}

// Record appends a step result. A nil err marks the step successful.
func (r *SyncReport) Record(step, key string, err error) {
	result := SyncStep{Step: step, Key: key, OK: err == nil}
	if err != nil {
		result.Error = err.Error()
	}
	r.Steps = append(r.Steps, result)
}

// Skip marks a step as intentionally not run (missing input, no-op delete).
func (r *SyncReport) Skip(step, key string) {
	r.Steps = append(r.Steps, SyncStep{Step: step, Key: key, OK: true, Skipped: true})
}

func (r *SyncReport) Failed() []SyncStep {
	var failed []SyncStep
	for _, s := range r.Steps {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

// Outcome derives the delivery-level result from the recorded steps. A
// report where nothing actually ran (no steps, or only skipped steps) is
// skipped, not synced.
func (r *SyncReport) Outcome() SyncOutcome {
	ran := 0
	for _, s := range r.Steps {
		if !s.Skipped {
			ran++
		}
	}
	if ran == 0 {
		return OutcomeSkipped
	}

	failed := len(r.Failed())
	switch {
	case failed == 0:
		return OutcomeSynced
	case failed == ran:
		return OutcomeFailed
	default:
		return OutcomePartial
	}
}
