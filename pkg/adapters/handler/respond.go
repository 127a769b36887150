package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shorterhq/shorter/pkg/core/domain"
	"github.com/shorterhq/shorter/pkg/logging"
)

type errorBody struct {
	Error string `json:"error"`
	State string `json:"state,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps sentinel errors to status codes. Anything
// unrecognized is a generic 500: internals are logged, never echoed.
func writeDomainError(ctx context.Context, w http.ResponseWriter, log logging.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidURL),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrReservedCode),
		errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		log.Error(ctx, "request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
