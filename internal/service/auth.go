package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/energydash/energydash-go/internal/crypto"
	"github.com/energydash/energydash-go/internal/model"
	"github.com/energydash/energydash-go/internal/repository"
	"github.com/energydash/energydash-go/internal/validation"
)

const tokenTypeBearer = "bearer"

// ErrDuplicate is wrapped by every "already registered" error.
var ErrDuplicate = errors.New("already exists")

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = &duplicateError{msg: "email already registered"}
	ErrUsernameTaken      = &duplicateError{msg: "username already taken"}
)

type duplicateError struct{ msg string }

func (e *duplicateError) Error() string { return e.msg }
func (e *duplicateError) Unwrap() error { return ErrDuplicate }

// UserStore is the persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// PasswordHasher turns passwords into stored hashes and checks candidates.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(id crypto.TokenIdentity) (string, error)
}

// AuthService handles registration, login and user lookup.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account. Email is checked for uniqueness
// before username.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = NormalizeEmail(req.Email)
	if err := validation.ValidateStruct(&req); err != nil {
		return model.UserResponse{}, err
	}

	taken, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return model.UserResponse{}, err
	}
	if taken {
		return model.UserResponse{}, ErrEmailTaken
	}

	taken, err = s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return model.UserResponse{}, err
	}
	if taken {
		return model.UserResponse{}, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.UserResponse{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return toUserResponse(user), nil
}

// Login checks the credentials and issues an access token. An unknown email
// and a wrong password produce the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := validation.ValidateStruct(&req); err != nil {
		return model.TokenResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(crypto.TokenIdentity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{AccessToken: token, TokenType: tokenTypeBearer}, nil
}

// GetUser retrieves a user by ID and returns safe user data.
// A missing user yields repository.ErrUserNotFound.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func toUserResponse(u *model.User) model.UserResponse {
	return model.UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
	}
}
