// Package api provides the versioned JSON API for the dashboard.
// All endpoints are under /api/v1/ and are CORS-enabled.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/journal"
)

const (
	// APIPrefix is the base path for all API endpoints.
	APIPrefix = "/api/v1"

	// Cache duration for overview responses (prevents refresh storms).
	overviewCacheDuration = 2 * time.Second
)

// SessionFunc resolves (or creates) the caller's dashboard session and waits
// for its initial load.
type SessionFunc func(w http.ResponseWriter, r *http.Request) *dashboard.Session

// ErrorEnvelope is the JSON body of every API error.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server handles API requests.
type Server struct {
	journal journal.Store // nil when STORAGE=off
	session SessionFunc
	cfg     config.Config
	logger  *slog.Logger

	overviewCache   map[time.Duration]*cachedOverview
	overviewCacheMu sync.RWMutex
}

type cachedOverview struct {
	data      *journal.Overview
	expiresAt time.Time
}

// NewServer creates a new API server.
func NewServer(store journal.Store, session SessionFunc, cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		journal:       store,
		session:       session,
		cfg:           cfg,
		logger:        logger,
		overviewCache: make(map[time.Duration]*cachedOverview),
	}
}

// Register mounts the API routes on r under APIPrefix.
func (s *Server) Register(r *mux.Router) {
	sub := r.PathPrefix(APIPrefix).Subrouter()
	sub.Use(cors.New(cors.Options{
		AllowedOrigins: []string{s.cfg.CORSAllowOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler)

	sub.HandleFunc("/state", s.handleState).Methods(http.MethodGet, http.MethodOptions)
	sub.HandleFunc("/journal", s.handleJournal).Methods(http.MethodGet, http.MethodOptions)
	sub.HandleFunc("/journal/overview", s.handleOverview).Methods(http.MethodGet, http.MethodOptions)
	sub.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet, http.MethodOptions)

	sub.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not_found", "no such endpoint")
	})
}

// Helper functions

func (s *Server) writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorEnvelope{Code: code, Message: message})
}

func parseWindow(r *http.Request) time.Duration {
	w := r.URL.Query().Get("window")
	switch w {
	case "1h":
		return time.Hour
	case "7d":
		return 7 * 24 * time.Hour
	case "24h", "":
		return 24 * time.Hour
	default:
		if d, err := time.ParseDuration(w); err == nil && d > 0 {
			return d
		}
		return 24 * time.Hour
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
