package web

import (
	"errors"
	"net/http"

	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/gateway"
	"requester-dashboard/internal/requests"
)

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	page := newPage(sess.State(), s.cfg)

	status := http.StatusOK
	if page.View == viewError {
		status = http.StatusBadGateway
	}
	s.render(w, status, page)
}

// POST /form/toggle
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Dispatch(dashboard.ActionToggleForm{})
	redirectHome(w, r)
}

// POST /requests
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	st := sess.State()
	if st.Mode != dashboard.ModeNewRequestForm {
		redirectHome(w, r)
		return
	}

	if st.Phase != dashboard.PhaseSubmitting {
		draft, files, err := s.decodeDraft(r)
		if err != nil {
			s.logger.Warn("bad request form", "session", sess.ID(), "err", err)
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
		actions := make([]dashboard.Action, 0, len(requests.RequiredFields)+1)
		for _, f := range requests.RequiredFields {
			v, _ := draft.Get(f)
			actions = append(actions, dashboard.ActionSetField{Field: f, Value: v})
		}
		// A re-rendered form cannot repost files, so keep the earlier selection
		// unless new files were chosen.
		if len(files) > 0 {
			actions = append(actions, dashboard.ActionSetFiles{Files: files})
		}
		sess.Dispatch(actions...)
	}

	_, err := sess.Submit(r.Context())
	var se *gateway.SubmitError
	switch {
	case err == nil, errors.Is(err, dashboard.ErrInvalid):
	case errors.As(err, &se):
		// Surfaced in the form view.
	case errors.Is(err, dashboard.ErrSubmitInFlight), errors.Is(err, dashboard.ErrNotLoaded), errors.Is(err, dashboard.ErrFormClosed):
		s.logger.Debug("submit ignored", "session", sess.ID(), "err", err)
	default:
		s.logger.Error("submit failed", "session", sess.ID(), "err", err)
	}
	redirectHome(w, r)
}

// POST /requests/select
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	id := r.FormValue("id")
	if _, ok := sess.Select(id); !ok {
		s.logger.Debug("select of unknown request", "session", sess.ID(), "id", id)
	}
	redirectHome(w, r)
}

// POST /modal/close
func (s *Server) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Dispatch(dashboard.ActionCloseModal{})
	redirectHome(w, r)
}
