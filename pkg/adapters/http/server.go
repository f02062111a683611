package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/syllabus"
	"github.com/aretw0/syllabus/internal/logging"
	"github.com/aretw0/syllabus/pkg/domain"
)

// Service is the part of the syllabus engine the API exposes.
type Service interface {
	Begin(ctx context.Context) (*domain.Session, error)
	Confirm(ctx context.Context, sessionID string) (*domain.Session, error)
	Session(sessionID string) (*domain.Session, error)
	Current() (*domain.Session, bool)
	Status(ctx context.Context) (syllabus.Status, error)
	Lesson(ctx context.Context, topicID string) (string, error)
}

// Server serves the JSON API over a Service.
type Server struct {
	Service  Service
	Streams  *StreamManager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams attaches the stream manager fed by the engine's lifecycle hooks.
func WithStreams(streams *StreamManager) Option {
	return func(s *Server) {
		s.Streams = streams
	}
}

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc Service, opts ...Option) http.Handler {
	server := &Server{
		Service: svc,
		Logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Streams == nil {
		server.Streams = NewStreamManager(server.Logger)
	}
	if server.Gatherer == nil {
		server.Gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/status", server.GetStatus)
	r.Post("/sessions", server.BeginSession)
	r.Get("/sessions/current", server.GetCurrentSession)
	r.Get("/sessions/{id}", server.GetSession)
	r.Post("/sessions/{id}/confirm", server.ConfirmSession)
	r.Get("/lessons/{id}", server.GetLesson)
	r.Get("/events", server.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "syllabus-http",
		"version": strings.TrimSpace(syllabus.Version),
	})
}

// GetStatus handles the GET /status request.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.Service.Status(r.Context())
	if err != nil {
		s.writeError(w, "Status", err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

// BeginSession handles the POST /sessions request.
// A complete curriculum answers 200 with a session in the done state.
func (s *Server) BeginSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Service.Begin(r.Context())
	if err != nil {
		s.writeError(w, "Begin", err)
		return
	}
	code := http.StatusCreated
	if sess.Done() {
		code = http.StatusOK
	}
	s.writeJSON(w, code, sess)
}

// GetCurrentSession handles the GET /sessions/current request.
func (s *Server) GetCurrentSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Service.Current()
	if !ok {
		s.writeError(w, "Current", domain.ErrSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Service.Session(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// ConfirmSession handles the POST /sessions/{id}/confirm request.
func (s *Server) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Service.Confirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "Confirm", err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// GetLesson handles the GET /lessons/{id} request.
func (s *Server) GetLesson(w http.ResponseWriter, r *http.Request) {
	content, err := s.Service.Lesson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "GetLesson", err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

// SubscribeEvents handles the GET /events request (SSE).
// Without a session_id every lifecycle event is streamed.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sessionID := r.URL.Query().Get("session_id")
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	_, _ = w.Write([]byte("event: ping\ndata: connected\n\n"))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	code := StatusCode(err)
	if code >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+" rejected", "err", err)
	}
	s.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "err", err)
	}
}

// StatusCode maps domain errors onto HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrLessonNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrCurriculumComplete):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnclassifiedCategory), errors.Is(err, domain.ErrUnsafePath):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
