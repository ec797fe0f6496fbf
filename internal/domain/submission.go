package domain

import "time"

// ItemResult is the outcome of submitting a single payload.
type ItemResult struct {
	Index  int
	Tarefa string
	Status int
	OK     bool
	Err    error
}

// BatchReport aggregates the per-item results of one submission batch.
type BatchReport struct {
	ID        string
	StartedAt time.Time
	Results   []ItemResult
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// AllOK reports whether every item in the batch was accepted.
func (r *BatchReport) AllOK() bool {
	return r.Failed == 0 && len(r.Results) > 0
}

// Add records a result and updates the counters.
func (r *BatchReport) Add(res ItemResult) {
	r.Results = append(r.Results, res)
	if res.OK {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// Preferences holds the last-used form values so the next session can
// prefill them. Submitted tasks and the request delay are never stored here.
type Preferences struct {
	ID       string
	Endpoint string
	WBSType  string
	WBSCode  string
	Project  string
}
