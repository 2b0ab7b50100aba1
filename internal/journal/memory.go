package journal

import (
	"sync"
	"time"
)

// MemoryStore implements Store using an in-memory ring buffer.
// This is used when STORAGE=memory or as a fallback.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	maxRows int
	head    int // next write position
	count   int
}

// NewMemoryStore creates a ring buffer holding at most maxRows entries.
func NewMemoryStore(maxRows int) *MemoryStore {
	if maxRows <= 0 {
		maxRows = 1
	}
	return &MemoryStore{
		entries: make([]Entry, maxRows),
		maxRows: maxRows,
	}
}

// Append stores e, overwriting the oldest entry when full.
func (s *MemoryStore) Append(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	cp.InvalidFields = append([]string(nil), e.InvalidFields...)
	s.entries[s.head] = cp

	s.head = (s.head + 1) % s.maxRows
	if s.count < s.maxRows {
		s.count++
	}
	return nil
}

// List returns entries matching opts, newest first.
func (s *MemoryStore) List(opts ListOptions) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := int64(0)
	if opts.Window > 0 {
		cutoff = time.Now().UnixMilli() - opts.Window.Milliseconds()
	}

	var filtered []Entry
	for _, e := range s.collectOrdered() {
		if opts.Outcome != nil && e.Outcome != *opts.Outcome {
			continue
		}
		if opts.SessionID != "" && e.SessionID != opts.SessionID {
			continue
		}
		if cutoff > 0 && e.TS < cutoff {
			continue
		}
		filtered = append(filtered, e)
	}

	if opts.Offset >= len(filtered) {
		return nil, nil
	}
	filtered = filtered[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}
	return filtered, nil
}

// Overview counts outcomes within window.
func (s *MemoryStore) Overview(window time.Duration) (*Overview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().UnixMilli() - window.Milliseconds()
	var o Overview
	submitMs := 0
	for _, e := range s.collectOrdered() {
		if e.TS < cutoff {
			continue
		}
		o.add(e, &submitMs)
	}
	o.finish(submitMs)
	return &o, nil
}

// Close is a no-op for memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// collectOrdered returns all entries newest first.
func (s *MemoryStore) collectOrdered() []Entry {
	if s.count == 0 {
		return nil
	}
	result := make([]Entry, 0, s.count)
	for i := 0; i < s.count; i++ {
		idx := (s.head - 1 - i + s.maxRows) % s.maxRows
		result = append(result, s.entries[idx])
	}
	return result
}
