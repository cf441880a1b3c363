package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/user/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	if user != nil && args.Error(0) == nil {
		user.ID = "0b5c7e2a-6c1d-4d7e-9a0f-3f1e2d4c5b6a"
		user.CreatedAt = time.Now().UTC()
		if user.Status == "" {
			user.Status = domain.StatusActive
		}
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string, includeDeleted bool) (*domain.User, error) {
	args := m.Called(ctx, id, includeDeleted)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByUserName(ctx context.Context, userName string, includeDeleted bool) (*domain.User, error) {
	args := m.Called(ctx, userName, includeDeleted)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) ListUsersByRole(ctx context.Context, role auth.Role, includeDeleted bool) ([]domain.User, error) {
	args := m.Called(ctx, role, includeDeleted)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role auth.Role) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) UpdateUserStatus(ctx context.Context, id string, from, to domain.Status, deletedAt *time.Time) error {
	args := m.Called(ctx, id, from, to, deletedAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, id string, token *string, expiry *time.Time) error {
	args := m.Called(ctx, id, token, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}
