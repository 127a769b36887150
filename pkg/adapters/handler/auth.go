package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/shorterhq/shorter/pkg/config"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
)

// AuthHandler serves account registration/login plus the Google sign-in
// flow. Both paths end in the same session token.
type AuthHandler struct {
	users         ports.UserService
	sessions      ports.SessionTokens
	oauthConfig   *oauth2.Config
	frontendURL   string
	allowedEmails []string
	isProduction  bool
	log           logging.Logger
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func NewAuthHandler(cfg *config.Config, users ports.UserService, sessions ports.SessionTokens, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		frontendURL:   cfg.FrontendURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
		log:           log,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, Email: req.Email})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token, Email: req.Email})
}

// Me handles GET /api/auth/me (session required by the router).
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"email": SessionEmail(r.Context())})
}

// GoogleLogin starts the OAuth flow.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := h.setStateCookie(w)
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the OAuth flow and mints a session token for the
// verified Google identity.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauthstate")
	if err != nil || r.FormValue("state") != stateCookie.Value {
		h.log.Warn(r.Context(), "oauth state mismatch")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Error(r.Context(), "oauth code exchange failed", "err", err)
		writeError(w, http.StatusInternalServerError, "code exchange failed")
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		h.log.Error(r.Context(), "oauth userinfo fetch failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed getting user info")
		return
	}
	defer resp.Body.Close()

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		h.log.Error(r.Context(), "oauth userinfo decode failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed decoding user info")
		return
	}

	if len(h.allowedEmails) > 0 && !contains(h.allowedEmails, gu.Email) {
		h.log.Warn(r.Context(), "oauth email not allowed", "email", gu.Email)
		writeError(w, http.StatusForbidden, "email not in allowlist")
		return
	}

	sessionToken, err := h.sessions.Issue(gu.Email)
	if err != nil {
		h.log.Error(r.Context(), "session issue failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    sessionToken,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Info(r.Context(), "login successful", "email", gu.Email)
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

// Logout clears the session cookie set by the Google flow.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-1 * time.Hour),
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) setStateCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(20 * time.Minute),
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
