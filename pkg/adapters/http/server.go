// Package http exposes the hydroplant App over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/hydroplant"
	"github.com/aretw0/hydroplant/internal/logging"
	"github.com/aretw0/hydroplant/pkg/domain"
	"github.com/aretw0/hydroplant/pkg/view"
)

// App is the subset of *hydroplant.App the handler drives.
type App interface {
	Connect(ctx context.Context) error
	Water(ctx context.Context) error
	Refresh(ctx context.Context) error
}

// StateSource renders the current view.
type StateSource interface {
	State() view.State
}

// Server binds the App to HTTP routes.
type Server struct {
	app      App
	view     StateSource
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics serves the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Response is the body of every API reply.
type Response struct {
	State view.State `json:"state"`
	Error string     `json:"error,omitempty"`
}

// NewHandler creates the HTTP handler.
func NewHandler(app App, state StateSource, opts ...Option) http.Handler {
	s := &Server{
		app:    app,
		view:   state,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/state", s.GetState)
	r.Post("/refresh", s.Refresh)
	r.Post("/connect", s.Connect)
	r.Post("/water", s.Water)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.reply(w, http.StatusOK, nil)
}

// Refresh handles POST /refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	err := s.app.Refresh(r.Context())
	if err != nil {
		s.logger.Warn("Refresh failed", "err", err)
	}
	s.reply(w, statusFor(err), err)
}

// Connect handles POST /connect.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	err := s.app.Connect(r.Context())
	if err != nil {
		s.logger.Warn("Connect failed", "err", err)
	}
	s.reply(w, statusFor(err), err)
}

// Water handles POST /water.
func (s *Server) Water(w http.ResponseWriter, r *http.Request) {
	err := s.app.Water(r.Context())
	if err != nil {
		s.logger.Warn("Water failed", "err", err)
	}
	s.reply(w, statusFor(err), err)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "hydroplant-http",
		"version": strings.TrimSpace(hydroplant.Version),
	})
}

func (s *Server) reply(w http.ResponseWriter, status int, err error) {
	resp := Response{State: s.view.State()}
	if err != nil {
		resp.Error = err.Error()
	}
	if encErr := writeJSON(w, status, resp); encErr != nil {
		s.logger.Error("Response encode failed", "err", encErr)
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrActionInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoWalletCapability):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return http.StatusForbidden
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
