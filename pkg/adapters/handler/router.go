package handler

import (
	"net/http"

	"github.com/shorterhq/shorter/pkg/config"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
)

// NewRouter wires the full HTTP surface. The catch-all GET /{code} must be
// registered last-resort; the mux prefers the longer literal patterns for
// /api and /auth.
func NewRouter(cfg *config.Config, resolver ports.Resolver, links ports.LinkService, users ports.UserService, sessions ports.SessionTokens, log logging.Logger) http.Handler {
	rh := NewRedirectHandler(resolver, log)
	lh := NewLinkHandler(links, log)
	ah := NewAuthHandler(cfg, users, sessions, log)
	mw := NewMiddleware(sessions, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	// Public resolution surface.
	mux.HandleFunc("GET /{code}", rh.Resolve)
	mux.HandleFunc("POST /{code}", rh.SubmitPassword)

	// Management API. Create accepts anonymous callers; list/delete/me need
	// a session.
	mux.Handle("POST /api/links", mw.WithSession(http.HandlerFunc(lh.Create)))
	mux.Handle("GET /api/links", mw.RequireSession(http.HandlerFunc(lh.List)))
	mux.Handle("DELETE /api/links", mw.RequireSession(http.HandlerFunc(lh.Delete)))
	mux.HandleFunc("GET /api/stats", lh.Stats)

	// Accounts.
	mux.HandleFunc("POST /api/auth/register", ah.Register)
	mux.HandleFunc("POST /api/auth/login", ah.Login)
	mux.Handle("GET /api/auth/me", mw.RequireSession(http.HandlerFunc(ah.Me)))
	mux.HandleFunc("GET /auth/google/login", ah.GoogleLogin)
	mux.HandleFunc("GET /auth/google/callback", ah.GoogleCallback)
	mux.HandleFunc("GET /auth/logout", ah.Logout)

	return mw.RequestID(mux)
}
