package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/Abdullah-Ro45/PulseCare-Vita1/internal/auth"
)

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

type Server struct {
	db     *sql.DB
	tokens *auth.Tokens
	clock  clockwork.Clock
	log    *zap.Logger
	opts   Options
}

func NewServer(db *sql.DB, tokens *auth.Tokens, clock clockwork.Clock, log *zap.Logger, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	return &Server{db: db, tokens: tokens, clock: clock, log: log, opts: opts}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.RequestID, s.requestLogger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.tokens.Middleware)

			r.Route("/meals", func(r chi.Router) {
				r.Get("/search-foods", s.handleSearchFoods)
				r.Get("/derive", s.handleDeriveMeal)
				r.Post("/add-meal", s.handleAddMeal)
				r.Get("/daily-summary", s.handleMealSummary)
				r.Put("/{id}", s.handleUpdateMeal)
				r.Delete("/{id}", s.handleDeleteMeal)
			})

			r.Route("/activities", func(r chi.Router) {
				r.Get("/types", s.handleActivityTypes)
				r.Get("/derive", s.handleDeriveActivity)
				r.Post("/add-activity", s.handleAddActivity)
				r.Get("/daily-summary", s.handleActivitySummary)
				r.Put("/{id}", s.handleUpdateActivity)
				r.Delete("/{id}", s.handleDeleteActivity)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", s.handleGetProfile)
				r.Put("/", s.handleUpdateProfile)
				r.Get("/weight-history", s.handleWeightHistory)
				r.Post("/weight", s.handleRecordWeight)
			})

			r.Route("/reminders", func(r chi.Router) {
				r.Get("/", s.handleListReminders)
				r.Post("/", s.handleUpsertReminder)
				r.Get("/due", s.handleDueReminders)
				r.Put("/{id}/toggle-active", s.handleToggleReminder)
				r.Put("/{id}/triggered", s.handleReminderTriggered)
				r.Delete("/{id}", s.handleDeleteReminder)
			})

			r.Get("/exercises", s.handleExercises)
			r.Get("/wellness", s.handleWellness)
		})
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.clock.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", s.clock.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.log.Error("health check failed", zap.Error(err))
		s.writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"ok": false})
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "time": s.clock.Now().Format(time.RFC3339)})
}
