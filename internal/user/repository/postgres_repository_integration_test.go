//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/database/dbtest"
	"github.com/ridloal/mini-store/internal/user/domain"
)

func TestPostgresUserRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := NewPostgresUserRepository(db)
	ctx := context.Background()

	alice := &domain.User{UserName: "alice", FullName: "Alice", PasswordHash: "h", PasswordSalt: "s", Role: auth.RoleCustomer}
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NotEmpty(t, alice.ID)
	assert.Equal(t, domain.StatusActive, alice.Status)

	dup := &domain.User{UserName: "alice", PasswordHash: "h", PasswordSalt: "s", Role: auth.RoleCustomer}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrUserConflict)

	admin := &domain.User{UserName: "admin", PasswordHash: "h", PasswordSalt: "s", Role: auth.RoleAdmin}
	require.NoError(t, repo.CreateUser(ctx, admin))

	n, err := repo.CountByRole(ctx, auth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	t.Run("refresh token round trip", func(t *testing.T) {
		token := "refresh-1"
		expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)
		require.NoError(t, repo.UpdateRefreshToken(ctx, alice.ID, &token, &expiry))

		got, err := repo.GetUserByRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		require.NotNil(t, got.RefreshTokenExpiry)
		assert.True(t, expiry.Equal(*got.RefreshTokenExpiry))
	})

	t.Run("status changes are conditional on the current status", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, repo.UpdateUserStatus(ctx, alice.ID, domain.StatusActive, domain.StatusDisabled, &at))
		assert.ErrorIs(t, repo.UpdateUserStatus(ctx, alice.ID, domain.StatusActive, domain.StatusDisabled, &at), ErrStatusChanged)

		require.NoError(t, repo.UpdateUserStatus(ctx, alice.ID, domain.StatusDisabled, domain.StatusActive, nil))
		got, err := repo.GetUserByID(ctx, alice.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, got.Status)
		assert.Nil(t, got.DeletedAt)
	})

	t.Run("self deactivation revokes the refresh token", func(t *testing.T) {
		require.NoError(t, repo.DeactivateUser(ctx, alice.ID, time.Now().UTC()))
		assert.ErrorIs(t, repo.DeactivateUser(ctx, alice.ID, time.Now().UTC()), ErrStatusChanged)

		_, err := repo.GetUserByRefreshToken(ctx, "refresh-1")
		assert.ErrorIs(t, err, ErrUserNotFound)

		got, err := repo.GetUserByID(ctx, alice.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDisabled, got.Status)
		assert.NotNil(t, got.DeletedAt)
	})

	t.Run("deleted accounts are hidden unless requested", func(t *testing.T) {
		at := time.Now().UTC()
		require.NoError(t, repo.UpdateUserStatus(ctx, alice.ID, domain.StatusDisabled, domain.StatusDeleted, &at))

		_, err := repo.GetUserByID(ctx, alice.ID, false)
		assert.ErrorIs(t, err, ErrUserNotFound)
		_, err = repo.GetUserByUserName(ctx, "alice", false)
		assert.ErrorIs(t, err, ErrUserNotFound)

		customers, err := repo.ListUsersByRole(ctx, auth.RoleCustomer, true)
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, domain.StatusDeleted, customers[0].Status)

		customers, err = repo.ListUsersByRole(ctx, auth.RoleCustomer, false)
		require.NoError(t, err)
		assert.Empty(t, customers)
	})
}
