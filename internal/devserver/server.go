// Package devserver is an in-memory implementation of the task backend's
// REST contract. It backs the client's integration tests and runs standalone
// via cmd/taskhubd, so the CLI is usable without the production API.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"taskhub/internal/service"
)

const (
	// SessionCookie is the cookie carrying the signed session token.
	SessionCookie = "taskhub_session"

	// sessionTTL is how long an issued session stays valid.
	sessionTTL = 24 * time.Hour

	maxBodySize = 1 << 20 // 1 MB
)

// account pairs a user with its password hash.
type account struct {
	user service.User
	hash []byte
}

// Server holds the in-memory state and the router. State is process-local
// and gone on exit; this is a fixture, not a production backend.
type Server struct {
	mu     sync.Mutex
	users  map[string]*account       // user ID -> account
	emails map[string]string         // email -> user ID
	tasks  map[string][]service.Task // user ID -> tasks in creation order

	secret []byte
	logger *slog.Logger
	router *mux.Router
}

// New creates a server with a random signing secret. A nil logger discards
// everything.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		users:  make(map[string]*account),
		emails: make(map[string]string),
		tasks:  make(map[string][]service.Task),
		secret: []byte(uuid.NewString()),
		logger: logger,
	}

	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/profile", s.requireSession(s.handleGetProfile)).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/profile", s.requireSession(s.handleUpdateProfile)).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks", s.requireSession(s.handleListTasks)).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", s.requireSession(s.handleCreateTask)).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}", s.requireSession(s.handleUpdateTask)).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", s.requireSession(s.handleDeleteTask)).Methods(http.MethodDelete)
	s.router = r
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requireSession verifies the session cookie and hands the user ID to next.
func (s *Server) requireSession(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !tok.Valid {
			writeMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}

		s.mu.Lock()
		_, ok := s.users[claims.Subject]
		s.mu.Unlock()
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		next(w, r, claims.Subject)
	}
}

// issueSession signs a session token for the user and sets the cookie.
func (s *Server) issueSession(w http.ResponseWriter, userID string) error {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL / time.Second),
	})
	return nil
}

// clearSession expires the session cookie.
func clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeMessage writes the error envelope the client decodes.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
