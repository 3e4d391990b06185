package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
)

type contextKey string

const userKey contextKey = "user"

const (
	detailInvalidToken = "Invalid authentication credentials"
	detailUserNotFound = "User not found"
	detailStorage      = "A database error occurred."
	detailUnexpected   = "An unexpected error occurred."
)

// TokenValidator resolves a bearer token to the user id in its subject.
type TokenValidator interface {
	Validate(token string) (int64, error)
}

// UserLookup loads the user a token refers to.
type UserLookup interface {
	GetUser(ctx context.Context, userID int64) (model.UserResponse, error)
}

// JWTAuth returns middleware that validates a Bearer token from the
// Authorization header and loads the user it names. A missing or invalid
// token is a 401; a valid token for a user that no longer exists is a 404.
func JWTAuth(tokens TokenValidator, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := bearerToken(r.Header.Get("Authorization"))
			if !found {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(token)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				switch {
				case errors.Is(err, repository.ErrUserNotFound):
					writeJSONError(w, http.StatusNotFound, detailUserNotFound)
				case errors.Is(err, repository.ErrStorage):
					slog.Error("auth user lookup failed", "user_id", userID, "error", err)
					writeJSONError(w, http.StatusInternalServerError, detailStorage)
				default:
					slog.Error("auth user lookup failed", "user_id", userID, "error", err)
					writeJSONError(w, http.StatusInternalServerError, detailUnexpected)
				}
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by JWTAuth.
func UserFromContext(ctx context.Context) (model.UserResponse, bool) {
	u, ok := ctx.Value(userKey).(model.UserResponse)
	return u, ok
}

// WithUser returns a copy of ctx carrying user. Handlers under JWTAuth
// never need it; it exists for tests of those handlers.
func WithUser(ctx context.Context, user model.UserResponse) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, detailInvalidToken)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}
