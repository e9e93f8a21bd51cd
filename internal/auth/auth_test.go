package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T, password string) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewAuthenticator(hash, []byte("test-secret-key-for-testing-only"), time.Hour)
	require.NoError(t, err)
	return a
}

func TestNewAuthenticator(t *testing.T) {
	_, err := NewAuthenticator(nil, []byte("secret"), time.Hour)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewAuthenticator([]byte("not-a-bcrypt-hash"), []byte("secret"), time.Hour)
	assert.Error(t, err)

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAuthenticator_LoginAndVerify(t *testing.T) {
	a := newTestAuthenticator(t, "Password@123")

	token, session, err := a.Login("Password@123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, RoleAdmin, session.Role)
	assert.NotEmpty(t, session.ID)

	verified, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, verified.ID)
	assert.True(t, verified.ExpiresAt.Equal(session.ExpiresAt))
	assert.True(t, verified.Valid(time.Now()))
}

func TestAuthenticator_WrongPassword(t *testing.T) {
	a := newTestAuthenticator(t, "Password@123")

	_, _, err := a.Login("password@123")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthenticator_VerifyRejects(t *testing.T) {
	a := newTestAuthenticator(t, "pw")
	token, _, err := a.Login("pw")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := a.Verify("invalid_token_xyz")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other := newTestAuthenticator(t, "pw")
		other.secret = []byte("a-different-secret")
		_, err := other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { a.now = time.Now }()

		_, err := a.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)

	s := Session{ID: "abc", Role: RoleAdmin, ExpiresAt: time.Now().Add(time.Minute)}
	got, ok := SessionFromContext(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Equal(t, s, got)
}
