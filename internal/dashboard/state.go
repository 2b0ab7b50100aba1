// Package dashboard holds the requester dashboard's view state as an immutable
// value advanced by discrete actions, and the session that runs the two backend
// effects (list on mount, create on submit).
package dashboard

import (
	"slices"

	"requester-dashboard/internal/requests"
)

// Mode is the presentation mode.
type Mode string

const (
	ModeDashboard      Mode = "dashboard"
	ModeNewRequestForm Mode = "new_request_form"
)

// Phase is the submission workflow phase.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseValidating   Phase = "validating"
	PhaseInvalid      Phase = "invalid"
	PhaseSubmitting   Phase = "submitting"
	PhaseSubmitted    Phase = "submitted"
	PhaseSubmitFailed Phase = "submit_failed"
)

// ListState is the result of the initial list fetch: Loading, Loaded or Failed.
type ListState interface {
	isListState()
}

// Loading means the initial fetch has not settled.
type Loading struct{}

// Loaded holds the request list store.
type Loaded struct {
	Records []requests.Record
}

// Failed holds the error of the initial fetch.
type Failed struct {
	Err error
}

func (Loading) isListState() {}
func (Loaded) isListState()  {}
func (Failed) isListState()  {}

// State is the complete dashboard state. Values are never mutated in place;
// Reduce returns a new State.
type State struct {
	List     ListState
	Mode     Mode
	Selected *requests.Record

	Draft     requests.Draft
	Errors    requests.ValidationErrors
	Phase     Phase
	SubmitErr error
}

// Initial returns the state before the list fetch settles.
func Initial() State {
	return State{
		List:   Loading{},
		Mode:   ModeDashboard,
		Errors: requests.ValidationErrors{},
		Phase:  PhaseIdle,
	}
}

// Records returns the list store, or nil unless the list is loaded.
func (s State) Records() []requests.Record {
	if l, ok := s.List.(Loaded); ok {
		return l.Records
	}
	return nil
}

// IsLoaded reports whether the list fetch succeeded.
func (s State) IsLoaded() bool {
	_, ok := s.List.(Loaded)
	return ok
}

// LoadErr returns the list fetch error, if any.
func (s State) LoadErr() error {
	if f, ok := s.List.(Failed); ok {
		return f.Err
	}
	return nil
}

// ModalOpen reports whether the detail modal is shown.
func (s State) ModalOpen() bool {
	return s.Mode == ModeDashboard && s.Selected != nil
}

// Metrics are the summary card counts.
type Metrics struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// Metrics derives the card counts from the current list.
func (s State) Metrics() Metrics {
	recs := s.Records()
	m := Metrics{Total: len(recs)}
	for _, r := range recs {
		switch r.Classification {
		case requests.ClassificationPending:
			m.Pending++
		case requests.ClassificationCompleted:
			m.Completed++
		}
	}
	return m
}

// appendRecord returns a new slice; the argument's backing array is never shared.
func appendRecord(recs []requests.Record, r requests.Record) []requests.Record {
	return append(slices.Clip(recs), r)
}
