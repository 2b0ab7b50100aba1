package api

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/journal"
	"requester-dashboard/internal/requests"
)

// StateResponse is a snapshot of one session's view.
type StateResponse struct {
	Session     string                    `json:"session"`
	List        string                    `json:"list"` // loading|loaded|failed
	Error       string                    `json:"error,omitempty"`
	Mode        dashboard.Mode            `json:"mode"`
	Phase       dashboard.Phase           `json:"phase"`
	Metrics     dashboard.Metrics         `json:"metrics"`
	Records     []requests.Record         `json:"records"`
	Selected    *requests.Record          `json:"selected,omitempty"`
	Draft       requests.Draft            `json:"draft"`
	Files       []requests.FileSelection  `json:"files,omitempty"`
	Errors      requests.ValidationErrors `json:"errors"`
	SubmitError string                    `json:"submit_error,omitempty"`
}

// handleState returns the caller's session view.
// GET /api/v1/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.writeJSON(w, NewStateResponse(sess.ID(), sess.State()))
}

// NewStateResponse flattens st for JSON.
func NewStateResponse(id string, st dashboard.State) StateResponse {
	resp := StateResponse{
		Session: id,
		Mode:    st.Mode,
		Phase:   st.Phase,
		Metrics: st.Metrics(),
		Draft:   st.Draft,
		Files:   st.Draft.Files,
		Errors:  st.Errors,
	}
	switch l := st.List.(type) {
	case dashboard.Loading:
		resp.List = "loading"
	case dashboard.Loaded:
		resp.List = "loaded"
		resp.Records = l.Records
		resp.Selected = st.Selected
	case dashboard.Failed:
		resp.List = "failed"
		resp.Error = l.Err.Error()
	}
	if st.SubmitErr != nil {
		resp.SubmitError = st.SubmitErr.Error()
	}
	if resp.Errors == nil {
		resp.Errors = requests.ValidationErrors{}
	}
	return resp
}

// JournalItem is one journal entry with a display age.
type JournalItem struct {
	journal.Entry
	Age string `json:"age"`
}

// JournalResponse contains a page of journal entries.
type JournalResponse struct {
	Entries []JournalItem `json:"entries"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// handleJournal returns recent journal entries.
// GET /api/v1/journal?limit=50&offset=0&outcome=submitted&window=24h
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		s.writeError(w, http.StatusServiceUnavailable, "storage_disabled", "journal storage not available")
		return
	}

	q := r.URL.Query()
	opts := journal.ListOptions{
		Limit:  parseInt(q.Get("limit"), 50),
		Offset: parseInt(q.Get("offset"), 0),
	}
	if opts.Limit <= 0 || opts.Limit > 500 {
		opts.Limit = 50
	}
	if v := q.Get("outcome"); v != "" {
		o := journal.Outcome(v)
		if !o.Valid() {
			s.writeError(w, http.StatusBadRequest, "invalid_outcome", "unknown outcome: "+v)
			return
		}
		opts.Outcome = &o
	}
	if q.Get("window") != "" {
		opts.Window = parseWindow(r)
	}

	entries, err := s.journal.List(opts)
	if err != nil {
		s.logger.Error("failed to list journal", "err", err)
		s.writeError(w, http.StatusInternalServerError, "journal_error", "failed to list journal")
		return
	}

	items := make([]JournalItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, JournalItem{
			Entry: e,
			Age:   humanize.Time(time.UnixMilli(e.TS)),
		})
	}

	s.writeJSON(w, JournalResponse{
		Entries: items,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
}

// handleOverview returns outcome counts.
// GET /api/v1/journal/overview?window=1h|24h|7d
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		s.writeError(w, http.StatusServiceUnavailable, "storage_disabled", "journal storage not available")
		return
	}

	window := parseWindow(r)

	s.overviewCacheMu.RLock()
	if cached, ok := s.overviewCache[window]; ok && time.Now().Before(cached.expiresAt) {
		s.overviewCacheMu.RUnlock()
		s.writeJSON(w, cached.data)
		return
	}
	s.overviewCacheMu.RUnlock()

	overview, err := s.journal.Overview(window)
	if err != nil {
		s.logger.Error("failed to get overview", "err", err)
		s.writeError(w, http.StatusInternalServerError, "journal_error", "failed to get overview")
		return
	}

	s.overviewCacheMu.Lock()
	s.overviewCache[window] = &cachedOverview{
		data:      overview,
		expiresAt: time.Now().Add(overviewCacheDuration),
	}
	s.overviewCacheMu.Unlock()

	s.writeJSON(w, overview)
}

// ConfigResponse exposes non-sensitive configuration.
type ConfigResponse struct {
	BackendURL      string   `json:"backend_url"`
	BackendTimeout  string   `json:"backend_timeout"`
	Storage         string   `json:"storage"`
	MaxUploadMemory string   `json:"max_upload_memory"`
	Names           []string `json:"names"`
	ProductTypes    []string `json:"product_types"`
	RequestTypes    []string `json:"request_types"`
	Classifications []string `json:"classifications"`
}

// handleConfig returns the form options and backend settings.
// GET /api/v1/config
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	timeout := "none"
	if s.cfg.BackendTimeout > 0 {
		timeout = s.cfg.BackendTimeout.String()
	}
	s.writeJSON(w, ConfigResponse{
		BackendURL:      s.cfg.BackendURL,
		BackendTimeout:  timeout,
		Storage:         string(s.cfg.Storage),
		MaxUploadMemory: s.cfg.MaxUploadMemory.String(),
		Names:           s.cfg.Names,
		ProductTypes:    s.cfg.ProductTypes,
		RequestTypes:    s.cfg.RequestTypes,
		Classifications: []string{requests.ClassificationNegotiable, requests.ClassificationCompetitive},
	})
}
