package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/oenomel87/agora/chat"
	"github.com/oenomel87/agora/errors"
	"github.com/oenomel87/agora/internal/mylog"
	"github.com/oenomel87/agora/thread"
)

type Server struct {
	logger  *mylog.Logger
	threads thread.Manager
	chat    *chat.Service
}

// NewHandler assembles the REST surface: CORS, panic recovery, and request
// logging around the route set.
func NewHandler(
	logger *mylog.Logger,
	threads thread.Manager,
	chatService *chat.Service,
	allowedOrigins []string,
) http.Handler {
	s := &Server{
		logger:  logger,
		threads: threads,
		chat:    chatService,
	}

	router := mux.NewRouter()
	router.HandleFunc("/", s.ping).Methods("GET")
	router.HandleFunc("/threads", s.createThread).Methods("POST")
	router.HandleFunc("/threads", s.listThreads).Methods("GET")
	router.HandleFunc("/threads/{id}", s.getThread).Methods("GET")
	router.HandleFunc("/threads/{id}", s.deleteThread).Methods("DELETE")
	router.HandleFunc("/threads/{id}/generate-title", s.generateTitle).Methods("POST")
	router.HandleFunc("/chat", s.handleChat).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.PrintRecoveryStack(true),
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)

	return cors(recovery(s.logRequests(router)))
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", mylog.Err(err))
	}
}

// writeError maps the error taxonomy onto HTTP statuses: bad params on the
// caller, absence as 404, upstream model failure as 502, the rest as 500.
// Unclassified errors are logged in full but reported as ErrInternal so
// storage details never reach the client.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrInvalidParams):
		status = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", mylog.Err(err))
		err = errors.ErrInternal
	}

	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
