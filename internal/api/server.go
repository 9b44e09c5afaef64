package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"streamsched/internal/config"
	"streamsched/internal/configsvc"
	"streamsched/internal/logging"
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

// Options wires the server to its collaborators.
type Options struct {
	Store  *schedule.Store
	Board  *view.Board
	Config *configsvc.Service
	Hub    *Hub
	Logger *slog.Logger

	// Token enables bearer authentication on /api routes except health.
	Token string
	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
	// ExportScope overrides the document's exportScope when set.
	ExportScope string
	Announce    config.Announce
	Started     time.Time
	Now         func() time.Time
}

// Server serves the HTTP API.
type Server struct {
	store       *schedule.Store
	board       *view.Board
	config      *configsvc.Service
	hub         *Hub
	logger      *slog.Logger
	validate    *validator.Validate
	exportScope string
	announce    config.Announce
	started     time.Time
	now         func() time.Time
	handler     http.Handler
}

// NewServer builds the router.
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil || opts.Board == nil || opts.Config == nil {
		return nil, errors.New("api server requires store, board, and config service")
	}
	s := &Server{
		store:       opts.Store,
		board:       opts.Board,
		config:      opts.Config,
		hub:         opts.Hub,
		logger:      logging.NewComponentLogger(opts.Logger, "api-server"),
		validate:    validator.New(),
		exportScope: strings.TrimSpace(opts.ExportScope),
		announce:    opts.Announce,
		started:     opts.Started,
		now:         opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.started.IsZero() {
		s.started = s.now()
	}
	if s.hub == nil {
		s.hub = NewHub(opts.Logger)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestContext(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	r.Get("/api/health", s.handleHealth)
	r.Get("/overlay", s.handleOverlay)
	r.Get("/ws", s.handleWS)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(opts.Token))
		r.Get("/api/config", s.handleGetConfig)
		r.Post("/api/config", s.handlePostConfig)
		r.Get("/api/themes", s.handleThemes)
		r.Get("/api/announce", s.handleAnnounce)

		r.Get("/api/slots", s.handleListSlots)
		r.Get("/api/slots/{key}", s.handleListCollection)
		r.Post("/api/slots/{key}", s.handleAddSlot)
		r.Patch("/api/slots/{key}/{id}", s.handleUpdateSlot)
		r.Delete("/api/slots/{key}/{id}", s.handleDeleteSlot)

		r.Get("/api/display", s.handleListDisplay)
		r.Get("/api/display/{key}", s.handleDisplay)
	})

	s.handler = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	uptime := s.now().Sub(s.started)
	writeJSON(s.logger, w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Uptime:        uptime.Truncate(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		Started:       s.started.Format(dateTimeFormat),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r, s.board.Panels)
}
