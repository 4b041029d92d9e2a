package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/metrics"
	"github.com/claude/liftlog/internal/repository"
	"github.com/claude/liftlog/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	sessions *session.Manager
	history  *history.Service
	repo     *repository.Repository
	metrics  *metrics.Manager
	log      *slog.Logger
	now      func() time.Time
	whois    WhoIser
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(mgr *session.Manager, repo *repository.Repository, m *metrics.Manager, log *slog.Logger) *Server {
	s := &Server{
		sessions: mgr,
		repo:     repo,
		metrics:  m,
		log:      log,
		now:      time.Now,
		router:   chi.NewRouter(),
	}
	s.history = history.NewService(repo, func() time.Time { return s.now() })
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale enables tailnet identity lookups for request attribution.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

func (s *Server) routes() {
	s.router.Use(Identity(func() WhoIser { return s.whois }))
	s.router.Use(RequestLogging(s.log))
	s.router.Use(RequestMetrics(s.metrics))
	s.router.Use(CORS)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		// Plan catalog
		r.Get("/plan", s.handlePlan)
		r.Get("/plan/{day}", s.handlePlanDay)

		// Current session
		r.Post("/session", s.handleStartSession)
		r.Get("/session", s.handleSessionStatus)
		r.Post("/session/sets", s.handleRecordSet)
		r.Delete("/session/sets/{exerciseID}/{index}", s.handleRemoveSet)
		r.Post("/session/finish", s.handleFinishSession)
		r.Post("/session/cancel", s.handleCancelSession)

		// History queries
		r.Get("/sessions", s.handleSessions)
		r.Get("/stats", s.handleStats)
		r.Get("/exercises/{id}/last", s.handleLastSet)
		r.Get("/next-day", s.handleNextDay)
		r.Get("/weekly-count", s.handleWeeklyCount)

		// Profile and data
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Delete("/data", s.handleClearData)
		r.Get("/export", s.handleExport)
	})
}
