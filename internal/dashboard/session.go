package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"requester-dashboard/internal/gateway"
	"requester-dashboard/internal/journal"
	"requester-dashboard/internal/metrics"
	"requester-dashboard/internal/requests"
)

var (
	// ErrInvalid is returned by Submit when the draft has validation errors.
	ErrInvalid = errors.New("request has validation errors")
	// ErrSubmitInFlight is returned by Submit while a previous submission is pending.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	// ErrNotLoaded is returned by Submit before the request list has loaded.
	ErrNotLoaded = errors.New("request list is not loaded")
	// ErrFormClosed is returned by Submit when the new request form is not open.
	ErrFormClosed = errors.New("new request form is not open")
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Gateway gateway.Gateway
	Journal journal.Store // may be nil
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Session owns one dashboard State and applies actions to it one at a time.
type Session struct {
	id   string
	deps Deps

	mu    sync.Mutex
	state State

	lastSeen  atomic.Int64 // unix nanos
	mountOnce sync.Once
	ready     chan struct{}
}

// NewSession returns a session in the Loading state. Call Mount to fetch the list.
func NewSession(id string, deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	s := &Session{
		id:    id,
		deps:  deps,
		state: Initial(),
		ready: make(chan struct{}),
	}
	s.touch()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Ready is closed once the initial list fetch has settled.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state
}

// Dispatch applies actions in order and returns the resulting state.
func (s *Session) Dispatch(actions ...Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for _, a := range actions {
		s.state = Reduce(s.state, a)
	}
	return s.state
}

// Mount fetches the request list. Only the first call reaches the backend;
// later calls wait for it and return the settled state.
func (s *Session) Mount(ctx context.Context) State {
	s.mountOnce.Do(func() {
		defer close(s.ready)
		s.load(context.WithoutCancel(ctx))
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) load(ctx context.Context) {
	start := time.Now()
	recs, err := s.deps.Gateway.ListRequests(ctx)
	elapsed := time.Since(start)

	entry := s.newEntry(journal.OutcomeLoaded, elapsed)
	if err != nil {
		s.Dispatch(ActionListFailed{Err: err})
		s.deps.Logger.Error("request list failed", "session", s.id, "op", metrics.OpList, "err", err)
		entry.Outcome = journal.OutcomeLoadFailed
		entry.Error = err.Error()
	} else {
		st := s.Dispatch(ActionListLoaded{Records: recs})
		entry.RecordCount = len(st.Records())
		s.deps.Logger.Debug("request list loaded", "session", s.id, "count", entry.RecordCount, "duration_ms", elapsed.Milliseconds())
	}
	s.record(entry)
}

// Submit validates the draft and, if valid, creates the request on the backend.
// The backend call runs without holding the session lock and is not cancelled
// when ctx is.
func (s *Session) Submit(ctx context.Context) (State, error) {
	s.mu.Lock()
	s.touch()
	switch {
	case !s.state.IsLoaded():
		st := s.state
		s.mu.Unlock()
		return st, ErrNotLoaded
	case s.state.Phase == PhaseSubmitting:
		st := s.state
		s.mu.Unlock()
		s.deps.Metrics.RecordSubmission("in_flight")
		return st, ErrSubmitInFlight
	case s.state.Mode != ModeNewRequestForm:
		st := s.state
		s.mu.Unlock()
		return st, ErrFormClosed
	}
	s.state = Reduce(s.state, ActionSubmit{})
	st := s.state
	s.mu.Unlock()

	if st.Phase == PhaseInvalid {
		entry := s.newEntry(journal.OutcomeInvalid, 0)
		entry.InvalidFields = st.Errors.Fields()
		entry.ProjectTitle = st.Draft.ProjectTitle
		entry.FileCount = len(st.Draft.Files)
		entry.RecordCount = len(st.Records())
		s.record(entry)
		s.deps.Metrics.RecordSubmission(string(journal.OutcomeInvalid))
		return st, ErrInvalid
	}

	draft := st.Draft
	start := time.Now()
	rec, err := s.deps.Gateway.CreateRequest(context.WithoutCancel(ctx), draft)
	elapsed := time.Since(start)

	entry := s.newEntry(journal.OutcomeSubmitted, elapsed)
	entry.ProjectTitle = draft.ProjectTitle
	entry.FileCount = len(draft.Files)

	if err != nil {
		st = s.Dispatch(ActionSubmitFailed{Err: err})
		s.deps.Logger.Error("submit failed", "session", s.id, "op", metrics.OpCreate, "err", err)
		entry.Outcome = journal.OutcomeSubmitFailed
		entry.Error = err.Error()
		entry.RecordCount = len(st.Records())
		s.record(entry)
		s.deps.Metrics.RecordSubmission(string(journal.OutcomeSubmitFailed))
		return st, err
	}

	st = s.Dispatch(ActionSubmitSucceeded{Record: rec})
	s.deps.Logger.Info("request submitted",
		"session", s.id,
		"reference", rec.ReferenceNumber,
		"id", rec.ID.String(),
		"duration_ms", elapsed.Milliseconds(),
	)
	entry.RecordID = rec.ID.String()
	entry.ReferenceNumber = rec.ReferenceNumber
	entry.RecordCount = len(st.Records())
	s.record(entry)
	s.deps.Metrics.RecordSubmission(string(journal.OutcomeSubmitted))
	return st, nil
}

// Select opens the detail modal for the record with the given id.
// It reports whether such a record exists.
func (s *Session) Select(id string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	rec, ok := requests.Find(s.state.Records(), id)
	if !ok {
		return s.state, false
	}
	s.state = Reduce(s.state, ActionSelectRequest{Record: &rec})
	return s.state, true
}

func (s *Session) newEntry(outcome journal.Outcome, elapsed time.Duration) *journal.Entry {
	return &journal.Entry{
		ID:         uuid.NewString(),
		TS:         time.Now().UnixMilli(),
		SessionID:  s.id,
		Outcome:    outcome,
		DurationMs: int(elapsed.Milliseconds()),
	}
}

func (s *Session) record(e *journal.Entry) {
	if s.deps.Journal == nil {
		return
	}
	if err := s.deps.Journal.Append(e); err != nil {
		s.deps.Logger.Warn("journal append failed", "session", s.id, "outcome", e.Outcome, "err", err)
	}
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}
