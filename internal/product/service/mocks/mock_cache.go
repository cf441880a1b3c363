package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache returns cached values as JSON so the service can decode them into its own type.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	if raw, ok := args.Get(0).(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), dest); err != nil {
			return false, err
		}
		return true, args.Error(1)
	}
	return false, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
