package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/logging"
	"github.com/shorterhq/shorter/pkg/ports"
)

// LinkHandler serves the management API under /api.
type LinkHandler struct {
	service ports.LinkService
	log     logging.Logger
}

func NewLinkHandler(service ports.LinkService, log logging.Logger) *LinkHandler {
	return &LinkHandler{service: service, log: log}
}

// Create handles POST /api/links. Anonymous creation is allowed; when the
// caller carries a session its email becomes the link's owner.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CreateLinkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var owner *string
	if email := SessionEmail(r.Context()); email != "" {
		owner = &email
	}

	summary, err := h.service.Create(r.Context(), owner, in)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, summary)
}

// List handles GET /api/links (session required by the router).
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	email := SessionEmail(r.Context())
	links, err := h.service.ListOwned(r.Context(), email)
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

// Delete handles DELETE /api/links?code= (session required by the router).
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code missing")
		return
	}

	email := SessionEmail(r.Context())
	if err := h.service.Delete(r.Context(), email, code); err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats handles GET /api/stats.
func (h *LinkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
