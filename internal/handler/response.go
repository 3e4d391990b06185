package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/energydash/energydash-go/internal/crypto"
	"github.com/energydash/energydash-go/internal/repository"
	"github.com/energydash/energydash-go/internal/service"
	"github.com/energydash/energydash-go/internal/validation"
)

const (
	detailInvalidCredentials = "Invalid credentials"
	detailInvalidToken       = "Invalid authentication credentials"
	detailEmailTaken         = "Email already registered"
	detailUsernameTaken      = "Username already taken"
	detailUserNotFound       = "User not found"
	detailStorage            = "A database error occurred."
	detailUnexpected         = "An unexpected error occurred."
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

// writeError maps a service error onto its status code and public message.
// Anything not recognized is logged and reported as an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse(verr.Error()))
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusBadRequest, errorResponse(detailEmailTaken))
	case errors.Is(err, service.ErrUsernameTaken):
		writeJSON(w, http.StatusBadRequest, errorResponse(detailUsernameTaken))
	case errors.Is(err, service.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, errorResponse(detailInvalidCredentials))
	case errors.Is(err, crypto.ErrInvalidToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, errorResponse(detailInvalidToken))
	case errors.Is(err, repository.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(detailUserNotFound))
	case errors.Is(err, repository.ErrStorage):
		slog.Error("storage failure", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(detailStorage))
	default:
		slog.Error("unexpected failure", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(detailUnexpected))
	}
}
