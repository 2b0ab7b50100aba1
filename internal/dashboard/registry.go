package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps session IDs to sessions.
type Registry struct {
	deps Deps
	ttl  time.Duration
	max  int

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry. ttl <= 0 disables idle eviction and
// max <= 0 disables the session cap.
func NewRegistry(deps Deps, ttl time.Duration, max int) *Registry {
	return &Registry{
		deps:     deps,
		ttl:      ttl,
		max:      max,
		sessions: make(map[string]*Session),
	}
}

// Get returns a live session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || r.expired(s, time.Now()) {
		return nil, false
	}
	return s, true
}

// Acquire returns the session for id, creating a new one (with a fresh id)
// when id is unknown or expired. New sessions start mounting in the background.
func (r *Registry) Acquire(ctx context.Context, id string) (s *Session, created bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}

	s = NewSession(uuid.NewString(), r.deps)

	r.mu.Lock()
	evicted := r.sweepLocked(time.Now())
	if r.max > 0 && len(r.sessions) >= r.max {
		r.evictOldestLocked()
		evicted++
	}
	r.sessions[s.id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.deps.Metrics.RecordEviction(evicted)
	r.deps.Metrics.UpdateSessions(n)
	if r.deps.Logger != nil {
		r.deps.Logger.Debug("session created", "session", s.id, "live", n)
	}

	go s.Mount(ctx)
	return s, true
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	n := r.sweepLocked(time.Now())
	live := len(r.sessions)
	r.mu.Unlock()

	r.deps.Metrics.RecordEviction(n)
	r.deps.Metrics.UpdateSessions(live)
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 && r.deps.Logger != nil {
				r.deps.Logger.Debug("evicted idle sessions", "count", n)
			}
		}
	}
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.idleSince()) > r.ttl
}

func (r *Registry) sweepLocked(now time.Time) int {
	n := 0
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, s := range r.sessions {
		if seen := s.idleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(r.sessions, oldestID)
}
