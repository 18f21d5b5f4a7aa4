// Package auth implements the token service: issuing and validating signed
// access tokens and managing the persisted refresh-token lifecycle.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/ecommerce-api/internal/model"
)

var (
	// ErrConfig signals a missing or unusable signing secret/algorithm.
	ErrConfig = errors.New("token signing not configured")
	// ErrInvalidToken covers bad signatures and malformed claims.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenNotFound is returned when a refresh token has no stored record.
	ErrTokenNotFound = errors.New("refresh token not found")
)

// Identity is the subject bound into issued tokens and resolved back out of
// validated ones.
type Identity struct {
	Email string
	Role  model.Role
}

// TokenStore persists refresh-token records. Find and Delete must return
// ErrTokenNotFound when no record matches the exact token string.
type TokenStore interface {
	Store(ctx context.Context, userID, token string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (model.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

// TokenService issues and validates HMAC-signed JWTs and tracks refresh
// tokens in the store. Refresh tokens are reuse-tolerant: Rotate neither
// rotates nor revokes them, and expired records are left in place until
// explicitly revoked.
type TokenService struct {
	store      TokenStore
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Reset tokens identify a user by id inside password-reset links and are
// deliberately short-lived.
const resetTTL = 15 * time.Minute

// NewTokenService builds a TokenService. The algorithm must name an HMAC
// method (HS256, HS384 or HS512); an empty secret or unknown algorithm is
// a configuration error.
func NewTokenService(store TokenStore, secret, algorithm string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" || algorithm == "" {
		return nil, ErrConfig
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, ErrConfig
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrConfig
	}
	return &TokenService{
		store:      store,
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (s *TokenService) sign(sub string, role model.Role, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	if role != "" {
		claims["role"] = string(role)
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// IssueAccessToken returns a short-lived signed token carrying the identity.
func (s *TokenService) IssueAccessToken(id Identity) (string, error) {
	return s.sign(id.Email, id.Role, s.accessTTL)
}

// IssueRefreshToken signs a long-lived token and persists its record. Every
// login inserts a fresh record; concurrent logins for the same user leave
// multiple independently valid tokens behind.
func (s *TokenService) IssueRefreshToken(ctx context.Context, id Identity, userID string) (string, error) {
	token, err := s.sign(id.Email, id.Role, s.refreshTTL)
	if err != nil {
		return "", err
	}
	expires := s.now().UTC().Add(s.refreshTTL)
	if err := s.store.Store(ctx, userID, token, expires); err != nil {
		return "", err
	}
	return token, nil
}

// IssueResetToken signs a short-lived token that identifies a user by id,
// for use in password-reset links. Nothing is persisted.
func (s *TokenService) IssueResetToken(userID string) (string, error) {
	return s.sign(userID, "", resetTTL)
}

// ValidateAccessToken verifies signature and expiry and returns the
// identity encoded in the claims.
func (s *TokenService) ValidateAccessToken(token string) (Identity, error) {
	sub, role, err := s.parse(token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{Email: sub, Role: model.ParseRole(role)}, nil
}

// ParseResetToken verifies a reset token and returns the user id it names.
func (s *TokenService) ParseResetToken(token string) (string, error) {
	sub, _, err := s.parse(token)
	return sub, err
}

// Rotate exchanges a stored, unexpired refresh token for a new access
// token. The record is looked up by exact token string; expiry is checked
// lazily and an expired record is left in place. The subject is re-derived
// by decoding the presented token, not read from the stored record. The
// refresh token itself stays valid and reusable until it expires or is
// revoked.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (string, error) {
	stored, err := s.store.Find(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if stored.ExpiresAt.Before(s.now().UTC()) {
		return "", ErrTokenExpired
	}
	id, err := s.ValidateAccessToken(refreshToken)
	if err != nil {
		return "", err
	}
	return s.IssueAccessToken(id)
}

// Revoke deletes the stored refresh token. Revoking the same token twice
// reports ErrTokenNotFound on the second call.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	return s.store.Delete(ctx, refreshToken)
}

// parse verifies any token this service issued and returns its subject and
// role claims.
func (s *TokenService) parse(token string) (sub, role string, err error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrTokenExpired
		}
		return "", "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	sub, _ = claims["sub"].(string)
	if sub == "" {
		return "", "", ErrInvalidToken
	}
	role, _ = claims["role"].(string)
	return sub, role, nil
}
