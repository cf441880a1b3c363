package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/user/domain"
)

type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) ListNonAdmin(ctx context.Context, caller auth.Caller) ([]domain.User, error) {
	args := m.Called(ctx, caller)
	if u := args.Get(0); u != nil {
		return u.([]domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLifecycleService) Disable(ctx context.Context, userID string, caller auth.Caller) error {
	return m.Called(ctx, userID, caller).Error(0)
}

func (m *MockLifecycleService) Enable(ctx context.Context, userID string, caller auth.Caller) error {
	return m.Called(ctx, userID, caller).Error(0)
}

func (m *MockLifecycleService) SoftDelete(ctx context.Context, userID string, caller auth.Caller) error {
	return m.Called(ctx, userID, caller).Error(0)
}

func (m *MockLifecycleService) SelfDeactivate(ctx context.Context, callerUserID string) error {
	return m.Called(ctx, callerUserID).Error(0)
}
