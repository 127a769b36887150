package handler

import (
	"net/http"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
)

// grantCookieMaxAge bounds the lifetime of an access grant; the grant value
// itself carries no expiry.
const grantCookieMaxAge = 3600

// RedirectHandler serves the public resolution surface: GET /{code} runs
// the state machine, POST /{code} accepts a password submission.
type RedirectHandler struct {
	resolver ports.Resolver
	log      logging.Logger
}

func NewRedirectHandler(resolver ports.Resolver, log logging.Logger) *RedirectHandler {
	return &RedirectHandler{resolver: resolver, log: log}
}

func grantCookieName(code string) string { return "auth_" + code }

// Resolve handles GET /{code}.
func (h *RedirectHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code missing")
		return
	}

	var grant string
	if c, err := r.Cookie(grantCookieName(code)); err == nil {
		grant = c.Value
	}

	res := h.resolver.Resolve(r.Context(), code, grant)
	h.respond(w, r, code, res)
}

// SubmitPassword handles POST /{code} with a form field "password".
func (h *RedirectHandler) SubmitPassword(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code missing")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	grant, res := h.resolver.SubmitPassword(r.Context(), code, r.PostFormValue("password"))
	if grant != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     grantCookieName(code),
			Value:    grant,
			Path:     "/" + code,
			MaxAge:   grantCookieMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
	h.respond(w, r, code, res)
}

// respond maps a Resolution to the wire. Every terminal state gets a
// distinguishable status code so edge logic can branch on it.
func (h *RedirectHandler) respond(w http.ResponseWriter, r *http.Request, code string, res domain.Resolution) {
	switch res.Outcome {
	case domain.OutcomeAllow:
		http.Redirect(w, r, res.URL, http.StatusFound)
	case domain.OutcomeReserved, domain.OutcomeNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: "link not found", State: string(res.Outcome)})
	case domain.OutcomeExpired:
		writeJSON(w, http.StatusGone, errorBody{Error: "link expired", State: string(res.Outcome)})
	case domain.OutcomeQuotaExceeded:
		writeJSON(w, http.StatusGone, errorBody{Error: "click limit reached", State: string(res.Outcome)})
	case domain.OutcomePasswordRequired:
		msg := "password required"
		if res.Reason != "" {
			msg = res.Reason
		}
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: msg, State: string(res.Outcome)})
	case domain.OutcomeError:
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		h.log.Error(r.Context(), "unknown resolution outcome", "code", code, "outcome", res.Outcome)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
