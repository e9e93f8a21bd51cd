// Package auth implements the admin password gate. A successful login yields a
// signed token; verifying the token yields a Session that admin operations take
// as an explicit argument.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// RoleAdmin is the only role issued today
	RoleAdmin = "admin"

	issuer = "lunch-order"
)

var (
	ErrInvalidPassword = errors.New("incorrect password")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrNotConfigured   = errors.New("admin access is not configured")
	ErrUnauthenticated = errors.New("admin session required")
)

// Session is the authenticated admin context
type Session struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Valid reports whether the session was issued and has not expired at now
func (s Session) Valid(now time.Time) bool {
	return s.Role == RoleAdmin && now.Before(s.ExpiresAt)
}

// Authenticator checks the admin password and issues HS256 tokens
type Authenticator struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAuthenticator builds an authenticator from a bcrypt hash and a signing secret
func NewAuthenticator(passwordHash, secret []byte, ttl time.Duration) (*Authenticator, error) {
	if len(passwordHash) == 0 || len(secret) == 0 {
		return nil, ErrNotConfigured
	}
	if _, err := bcrypt.Cost(passwordHash); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Authenticator{
		passwordHash: passwordHash,
		secret:       secret,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// HashPassword hashes a plain admin password with bcrypt
func HashPassword(password string) ([]byte, error) {
	if password == "" {
		return nil, ErrNotConfigured
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// Login checks password and returns a signed token with its session
func (a *Authenticator) Login(password string) (string, Session, error) {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", Session{}, ErrInvalidPassword
	}

	now := a.now().Truncate(time.Second)
	session := Session{
		ID:        uuid.New().String(),
		Role:      RoleAdmin,
		IssuedAt:  now,
		ExpiresAt: now.Add(a.ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        session.ID,
		Issuer:    issuer,
		Subject:   session.Role,
		IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, session, nil
}

// Verify parses a token and returns the admin session it carries
func (a *Authenticator) Verify(token string) (Session, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !parsed.Valid || claims.Subject != RoleAdmin {
		return Session{}, ErrInvalidToken
	}

	session := Session{
		ID:   claims.ID,
		Role: claims.Subject,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	session.ExpiresAt = claims.ExpiresAt.Time
	return session, nil
}

type sessionKey struct{}

// WithSession stores s in ctx for the HTTP layer
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext extracts the session placed by WithSession
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
