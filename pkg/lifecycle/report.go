package lifecycle

import "time"

// Status is the outcome of one stage.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// StageResult describes one stage of a run.
type StageResult struct {
	Stage    string
	Status   Status
	Error    error
	Duration time.Duration
}

// Report is the outcome of a pipeline run. Results has one entry per
// configured stage, in order.
type Report struct {
	RunID    string
	Path     string
	Results  []StageResult
	Duration time.Duration
}

// Succeeded reports whether every stage succeeded.
func (r *Report) Succeeded() bool {
	return r.Err() == nil
}

// Err returns the *StageError of the first failed stage, or nil.
func (r *Report) Err() error {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return res.Error
		}
	}
	return nil
}

// Result returns the result for the named stage.
func (r *Report) Result(stage string) (StageResult, bool) {
	for _, res := range r.Results {
		if res.Stage == stage {
			return res, true
		}
	}
	return StageResult{}, false
}

// Count returns how many stages ended with status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
