package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/platform/apperr"
	"github.com/ridloal/mini-store/internal/platform/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:      []byte("test-secret"),
		Issuer:         "MiniStoreAPI",
		Audience:       "MiniStoreUsers",
		AccessTokenTTL: time.Hour,
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testAuthConfig())
	caller := Caller{UserID: "6f1c1c52-3a4e-4a8a-9f4f-0e5b7d1f9a11", UserName: "alice", Role: RoleCustomer}

	token, expiresAt, err := m.Issue(caller)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, caller, got)
}

func TestTokenManager_Rejects(t *testing.T) {
	cfg := testAuthConfig()
	m := NewTokenManager(cfg)
	caller := Caller{UserID: "u1", UserName: "root", Role: RoleAdmin}

	t.Run("expired", func(t *testing.T) {
		token, _, err := m.Issue(caller)
		require.NoError(t, err)

		later := NewTokenManager(cfg)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := cfg
		other.SecretKey = []byte("another-secret")
		token, _, err := NewTokenManager(other).Issue(caller)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := cfg
		other.Audience = "someone-else"
		token, _, err := NewTokenManager(other).Issue(caller)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		claims := Claims{Role: RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(cfg.SecretKey)
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("unknown role", func(t *testing.T) {
		token, _, err := m.Issue(Caller{UserID: "u1", Role: "Root"})
		require.NoError(t, err)
		_, err = m.Verify(token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" ADMIN ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("customer")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, r)

	_, err = ParseRole("owner")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}
