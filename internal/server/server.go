package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// maxUpdateSize caps the body of one webhook call
const maxUpdateSize = 1 << 20

// UpdateProcessor handles one Telegram update to completion
type UpdateProcessor interface {
	ProcessUpdate(u tele.Update)
}

// UserCounter reports how many users the bot knows
type UserCounter interface {
	UserCount() (int, error)
}

// Server is the webhook entry point
type Server struct {
	router    chi.Router
	processor UpdateProcessor
	counter   UserCounter
	logger    *zap.Logger
}

// NewServer creates a new webhook server
func NewServer(processor UpdateProcessor, counter UserCounter, logger *zap.Logger) *Server {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	s := &Server{
		router:    r,
		processor: processor,
		counter:   counter,
		logger:    logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleStatus)
	s.router.Post("/", s.handleUpdate)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	users, err := s.counter.UserCount()
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"status": "error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "users": users})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var update tele.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateSize)).Decode(&update); err != nil {
		s.logger.Warn("Rejected malformed update", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "malformed update"})
		return
	}

	s.processor.ProcessUpdate(update)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger logs method, path, status and duration of each request
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
