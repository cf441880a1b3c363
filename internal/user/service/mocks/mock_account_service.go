package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ridloal/mini-store/internal/user/domain"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*domain.TokenResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	args := m.Called(ctx, refreshToken)
	if r := args.Get(0); r != nil {
		return r.(*domain.TokenResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountService) EnsureAdmin(ctx context.Context, userName, password string) (bool, error) {
	args := m.Called(ctx, userName, password)
	return args.Bool(0), args.Error(1)
}
