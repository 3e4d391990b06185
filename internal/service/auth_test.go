package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/energydash/energydash-go/internal/crypto"
	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
	"github.com/energydash/energydash-go/internal/validation"
)

// memUsers is an in-memory UserStore. createErr, when set, is returned by
// Create to simulate a unique index violation after the existence checks.
type memUsers struct {
	byID      map[int64]*model.User
	nextID    int64
	createErr error
	failWith  error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]*model.User)}
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	u.ID = m.nextID
	stored := *u
	m.byID[u.ID] = &stored
	return nil
}

func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, u := range m.byID {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

// plainHasher stands in for Argon2id so the tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) (bool, error) {
	return h == "hashed:"+p, nil
}

func newTestAuthService(t *testing.T) (*AuthService, *memUsers, *crypto.TokenService) {
	t.Helper()
	tokens, err := crypto.NewTokenService("test-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error: %v", err)
	}
	users := newMemUsers()
	return NewAuthService(users, plainHasher{}, tokens), users, tokens
}

func mustRegister(t *testing.T, svc *AuthService, username, email, password string) model.UserResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), model.RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}
	return resp
}

func TestRegister_NormalizesInput(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	resp := mustRegister(t, svc, "  alice  ", "  Alice@Example.COM ", "secret123")

	if resp.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", resp.Email, "alice@example.com")
	}
	if resp.Username != "alice" {
		t.Errorf("Username = %q, want %q", resp.Username, "alice")
	}
	if resp.ID == 0 {
		t.Error("expected a generated id")
	}

	stored := users.byID[resp.ID]
	if stored.PasswordHash == "secret123" || !strings.HasPrefix(stored.PasswordHash, "hashed:") {
		t.Errorf("password was not hashed before storage: %q", stored.PasswordHash)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	mustRegister(t, svc, "alice", "alice@example.com", "secret123")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "someone-else",
		Email:    " ALICE@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailTaken) || !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrEmailTaken wrapping ErrDuplicate, got %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	mustRegister(t, svc, "alice", "alice@example.com", "secret123")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice ",
		Email:    "other@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrUsernameTaken) || !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrUsernameTaken wrapping ErrDuplicate, got %v", err)
	}
}

func TestRegister_EmailCheckedFirst(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	mustRegister(t, svc, "alice", "alice@example.com", "secret123")

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegister_UniqueIndexRace(t *testing.T) {
	tests := []struct {
		repoErr error
		want    error
	}{
		{repository.ErrDuplicateEmail, ErrEmailTaken},
		{repository.ErrDuplicateUsername, ErrUsernameTaken},
	}
	for _, tt := range tests {
		svc, users, _ := newTestAuthService(t)
		users.createErr = tt.repoErr

		_, err := svc.Register(context.Background(), model.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret123"})
		if !errors.Is(err, tt.want) {
			t.Errorf("repo error %v: got %v, want %v", tt.repoErr, err, tt.want)
		}
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
		want string
	}{
		{"empty username", model.RegisterRequest{Username: "  ", Email: "a@b.io", Password: "secret123"}, "username: field required"},
		{"short username", model.RegisterRequest{Username: "ab", Email: "a@b.io", Password: "secret123"}, "username: must be at least 3 characters"},
		{"invalid email", model.RegisterRequest{Username: "alice", Email: "invalidemail", Password: "secret123"}, "email: value is not a valid email address"},
		{"short password", model.RegisterRequest{Username: "alice", Email: "a@b.io", Password: "data"}, "password: must be at least 6 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAuthService(t)

			_, err := svc.Register(context.Background(), tt.req)

			var verr *validation.RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.want)
			}
		})
	}
}

func TestRegister_StorageError(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	users.failWith = repository.ErrStorage

	_, err := svc.Register(context.Background(), model.RegisterRequest{Username: "alice", Email: "a@b.io", Password: "secret123"})
	if !errors.Is(err, repository.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	user := mustRegister(t, svc, "testuser", "user@test.com", "testuser")

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: " USER@test.com ", Password: "testuser"})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Errorf("TokenType = %q, want bearer", resp.TokenType)
	}

	userID, err := tokens.Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if userID != user.ID {
		t.Errorf("token subject = %d, want %d", userID, user.ID)
	}
}

func TestLogin_InvalidCredentialsIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	mustRegister(t, svc, "testuser", "user@test.com", "testuser")

	_, wrongPassword := svc.Login(context.Background(), model.LoginRequest{Email: "user@test.com", Password: "wrongpassword"})
	_, unknownEmail := svc.Login(context.Background(), model.LoginRequest{Email: "invalid@example.com", Password: "wrongpassword"})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", wrongPassword)
	}
	if wrongPassword != unknownEmail {
		t.Errorf("errors differ: %v vs %v", wrongPassword, unknownEmail)
	}
}

func TestLogin_ValidationError(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "user@test.com"})

	var verr *validation.RequestValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Error() != "password: field required" {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestGetUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	created := mustRegister(t, svc, "alice", "alice@example.com", "secret123")

	got, err := svc.GetUser(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetUser() unexpected error: %v", err)
	}
	if got != created {
		t.Errorf("GetUser() = %+v, want %+v", got, created)
	}

	if _, err := svc.GetUser(context.Background(), 999); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("GetUser(999) error = %v, want ErrUserNotFound", err)
	}
}
