// Package journal persists an audit trail of dashboard activity: initial list
// loads and submit attempts. It stores request metadata only, never the
// special instructions or attached files.
package journal

import (
	"time"
)

// Outcome is what happened.
type Outcome string

const (
	OutcomeLoaded       Outcome = "loaded"
	OutcomeLoadFailed   Outcome = "load_failed"
	OutcomeInvalid      Outcome = "invalid"
	OutcomeSubmitted    Outcome = "submitted"
	OutcomeSubmitFailed Outcome = "submit_failed"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeLoaded, OutcomeLoadFailed, OutcomeInvalid, OutcomeSubmitted, OutcomeSubmitFailed:
		return true
	}
	return false
}

// Entry is one journal line.
type Entry struct {
	ID        string  `json:"id"`
	TS        int64   `json:"ts"` // unix ms
	SessionID string  `json:"session_id"`
	Outcome   Outcome `json:"outcome"`

	// Set for submitted entries.
	RecordID        string `json:"record_id,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`

	ProjectTitle  string   `json:"project_title,omitempty"`
	InvalidFields []string `json:"invalid_fields,omitempty"`
	FileCount     int      `json:"file_count,omitempty"`
	RecordCount   int      `json:"record_count"` // list size after the event
	Error         string   `json:"error,omitempty"`
	DurationMs    int      `json:"duration_ms"`
}

// ListOptions filters entries.
type ListOptions struct {
	Limit     int
	Offset    int
	Outcome   *Outcome
	SessionID string
	Window    time.Duration // only entries within this window
}

// Overview counts outcomes in a time window.
type Overview struct {
	Total        int     `json:"total"`
	Loaded       int     `json:"loaded"`
	LoadFailed   int     `json:"load_failed"`
	Invalid      int     `json:"invalid"`
	Submitted    int     `json:"submitted"`
	SubmitFailed int     `json:"submit_failed"`
	SubmitRate   float64 `json:"submit_success_rate"` // submitted / (submitted + submit_failed)
	AvgSubmitMs  int     `json:"avg_submit_ms"`
}

// Store is the interface for journal storage.
type Store interface {
	// Append adds an entry.
	Append(e *Entry) error

	// List returns entries newest first.
	List(opts ListOptions) ([]Entry, error)

	// Overview returns outcome counts for a time window.
	Overview(window time.Duration) (*Overview, error)

	// Close releases resources.
	Close() error
}

func (o *Overview) add(e Entry, submitMs *int) {
	o.Total++
	switch e.Outcome {
	case OutcomeLoaded:
		o.Loaded++
	case OutcomeLoadFailed:
		o.LoadFailed++
	case OutcomeInvalid:
		o.Invalid++
	case OutcomeSubmitted:
		o.Submitted++
		*submitMs += e.DurationMs
	case OutcomeSubmitFailed:
		o.SubmitFailed++
		*submitMs += e.DurationMs
	}
}

func (o *Overview) finish(submitMs int) {
	attempts := o.Submitted + o.SubmitFailed
	if attempts > 0 {
		o.SubmitRate = float64(o.Submitted) / float64(attempts)
		o.AvgSubmitMs = submitMs / attempts
	}
}
