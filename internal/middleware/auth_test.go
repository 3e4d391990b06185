package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
)

type stubTokens map[string]int64

func (s stubTokens) Validate(token string) (int64, error) {
	id, ok := s[token]
	if !ok {
		return 0, errors.New("invalid token")
	}
	return id, nil
}

type stubUsers struct {
	users map[int64]model.UserResponse
	err   error
}

func (s stubUsers) GetUser(_ context.Context, id int64) (model.UserResponse, error) {
	if s.err != nil {
		return model.UserResponse{}, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return model.UserResponse{}, repository.ErrUserNotFound
	}
	return u, nil
}

func TestJWTAuth(t *testing.T) {
	alice := model.UserResponse{ID: 1, Email: "alice@example.com", Username: "alice"}
	tokens := stubTokens{"good": 1, "orphan": 2}
	users := stubUsers{users: map[int64]model.UserResponse{1: alice}}

	tests := []struct {
		name       string
		header     string
		users      UserLookup
		wantStatus int
		wantDetail string
	}{
		{"missing header", "", users, http.StatusUnauthorized, detailInvalidToken},
		{"wrong scheme", "Basic good", users, http.StatusUnauthorized, detailInvalidToken},
		{"empty token", "Bearer ", users, http.StatusUnauthorized, detailInvalidToken},
		{"invalid token", "Bearer bad", users, http.StatusUnauthorized, detailInvalidToken},
		{"user gone", "Bearer orphan", users, http.StatusNotFound, detailUserNotFound},
		{"storage failure", "Bearer good", stubUsers{err: repository.ErrStorage}, http.StatusInternalServerError, detailStorage},
		{"valid", "Bearer good", users, http.StatusOK, ""},
		{"lowercase scheme", "bearer good", users, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.UserResponse
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			JWTAuth(tokens, tt.users)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantDetail != "" && !strings.Contains(rec.Body.String(), tt.wantDetail) {
				t.Errorf("body = %s, want detail %q", rec.Body.String(), tt.wantDetail)
			}
			if tt.wantStatus == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Bearer" {
				t.Error("expected WWW-Authenticate: Bearer on 401")
			}
			if tt.wantStatus == http.StatusOK && got != alice {
				t.Errorf("user in context = %+v, want %+v", got, alice)
			}
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("expected no user in empty context")
	}
}
