// Package web serves the server-rendered requester dashboard: the metrics
// cards, request table and detail modal, and the new request form.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-playground/form"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"requester-dashboard/internal/api"
	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/journal"
	assets "requester-dashboard/web"
)

// DefaultLoadWait bounds how long a page render waits for a new session's
// initial list before showing the loading view.
const DefaultLoadWait = 2 * time.Second

// Server renders dashboard pages for browser sessions.
type Server struct {
	cfg      config.Config
	registry *dashboard.Registry
	journal  journal.Store
	logger   *slog.Logger

	tmpl     *template.Template
	static   fs.FS
	decoder  *form.Decoder
	loadWait time.Duration
}

// NewServer parses the embedded templates and returns a Server.
// store may be nil when the journal is disabled.
func NewServer(cfg config.Config, registry *dashboard.Registry, store journal.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tfs, err := assets.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	tmpl, err := template.New("").ParseFS(tfs, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := assets.Static()
	if err != nil {
		return nil, fmt.Errorf("load static assets: %w", err)
	}

	return &Server{
		cfg:      cfg,
		registry: registry,
		journal:  store,
		logger:   logger,
		tmpl:     tmpl,
		static:   static,
		decoder:  form.NewDecoder(),
		loadWait: DefaultLoadWait,
	}, nil
}

// Router returns the route table without compression.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api.NewServer(s.journal, s.session, s.cfg, s.logger).Register(r)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/form/toggle", s.handleToggle).Methods(http.MethodPost)
	r.HandleFunc("/requests", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/requests/select", s.handleSelect).Methods(http.MethodPost)
	r.HandleFunc("/modal/close", s.handleCloseModal).Methods(http.MethodPost)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))

	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	return r
}

// Handler returns the gzip-wrapped router.
func (s *Server) Handler() http.Handler {
	return gziphandler.GzipHandler(s.Router())
}

// session returns the caller's session, creating one (and its cookie) when
// needed, and waits briefly for its first list fetch.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	var id string
	if c, err := r.Cookie(s.cfg.SessionCookie); err == nil {
		id = c.Value
	}

	sess, created := s.registry.Acquire(r.Context(), id)
	if created {
		s.logger.Info("session started", "session", sess.ID())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	timer := time.NewTimer(s.loadWait)
	defer timer.Stop()
	select {
	case <-sess.Ready():
	case <-timer.C:
	case <-r.Context().Done():
	}
	return sess
}

func (s *Server) render(w http.ResponseWriter, status int, page pageView) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		s.logger.Error("template render failed", "view", page.View, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
