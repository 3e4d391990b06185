package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "energydash"
	tokenAudience = "energydash-api"
)

var (
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrUnsupportedMethod = errors.New("signing method must be HS256, HS384 or HS512")
	ErrEmptySecret       = errors.New("signing secret is empty")
	ErrNonPositiveExpiry = errors.New("token expiry must be positive")
)

// Claims represents the JWT claims for an authenticated user.
// The user id travels in the registered "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenIdentity is the user data embedded in an issued token.
type TokenIdentity struct {
	UserID   int64
	Email    string
	Username string
}

// TokenService issues and validates signed, time-limited bearer tokens.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	expiry time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService for the given HMAC algorithm name.
func NewTokenService(secret, algorithm string, expiry time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if expiry <= 0 {
		return nil, ErrNonPositiveExpiry
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedMethod, algorithm)
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		expiry: expiry,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the given identity that expires after the
// configured TTL.
func (s *TokenService) Issue(id TokenIdentity) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:    id.Email,
		Username: id.Username,
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Validate verifies the token and returns the user id it was issued for.
// Bad signatures, malformed tokens, expired tokens and unusable subjects all
// yield ErrInvalidToken so callers cannot tell them apart.
func (s *TokenService) Validate(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}

	return userID, nil
}
