package model

import (
	"time"
)

// PassStatus is the outcome of one pass.
type PassStatus string

const (
	// PassCompleted means the pass ran and wrote its dataset.
	PassCompleted PassStatus = "completed"

	// PassSkipped means a prerequisite was missing, so nothing was crawled.
	PassSkipped PassStatus = "skipped"

	// PassFailed means the pass could not write its output.
	PassFailed PassStatus = "failed"

	// PassCancelled means the run was interrupted before the pass finished.
	PassCancelled PassStatus = "cancelled"
)

// PassResult summarizes one pass of a run.
type PassResult struct {
	// Pass is the pass name (ports, ships-in-port, ...).
	Pass string `json:"pass"`

	// Dataset is the name of the dataset the pass writes.
	Dataset string `json:"dataset"`

	// Status is the outcome of the pass.
	Status PassStatus `json:"status"`

	// Seeds is the number of seed URLs the pass crawled.
	Seeds int `json:"seeds"`

	// Pages is the number of pages fetched.
	Pages int `json:"pages"`

	// Records is the number of records written.
	Records int `json:"records"`

	// Errors is the number of error records produced.
	Errors int `json:"errors"`

	// Message explains a skipped or failed pass.
	Message string `json:"message,omitempty"`

	// Duration is the wall time of the pass.
	Duration time.Duration `json:"duration"`
}

// RunReport is the outcome of one crawl run.
// Passes append their results and error records to it as they finish.
type RunReport struct {
	// StartedAt is when the run began (UTC).
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last pass finished (UTC).
	FinishedAt time.Time `json:"finished_at"`

	// Passes holds one result per executed pass, in execution order.
	Passes []PassResult `json:"passes"`

	// Errors collects the error records of every pass.
	Errors []ErrorRecord `json:"errors"`

	// Cancelled is true when the run was interrupted.
	Cancelled bool `json:"cancelled"`
}

// NewRunReport creates an empty report stamped with the given start time.
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{
		StartedAt: startedAt.UTC(),
		Passes:    make([]PassResult, 0),
		Errors:    make([]ErrorRecord, 0),
	}
}

// AddPass records the result of a pass.
func (r *RunReport) AddPass(result PassResult) {
	r.Passes = append(r.Passes, result)
}

// AddErrors appends error records.
func (r *RunReport) AddErrors(errs ...ErrorRecord) {
	r.Errors = append(r.Errors, errs...)
}

// Pass returns the result of the named pass.
func (r *RunReport) Pass(name string) (PassResult, bool) {
	for _, p := range r.Passes {
		if p.Pass == name {
			return p, true
		}
	}
	return PassResult{}, false
}

// TotalRecords returns the number of records written by all passes.
func (r *RunReport) TotalRecords() int {
	total := 0
	for _, p := range r.Passes {
		total += p.Records
	}
	return total
}

// Duration returns the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
