package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
)

type contextKey string

const (
	emailKey     contextKey = "session_email"
	requestIDKey contextKey = "request_id"
)

// SessionEmail returns the authenticated email from the request context,
// empty when the caller is anonymous.
func SessionEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

type Middleware struct {
	sessions ports.SessionTokens
	log      logging.Logger
}

func NewMiddleware(sessions ports.SessionTokens, log logging.Logger) *Middleware {
	return &Middleware{sessions: sessions, log: log}
}

// RequestID tags every request with an ID, echoed in X-Request-ID and
// available to the loggers downstream.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithSession resolves an Authorization: Bearer token into a session email
// when one is present. Invalid tokens are treated as absent; endpoints that
// require identity use RequireSession.
func (m *Middleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if email, err := m.sessions.Verify(token); err == nil {
				ctx := context.WithValue(r.Context(), emailKey, email)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession rejects requests without a valid Bearer session token.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		email, err := m.sessions.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		ctx := context.WithValue(r.Context(), emailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
