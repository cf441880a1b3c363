package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	pDomain "github.com/ridloal/mini-store/internal/product/domain"
)

func TestNewIndexResyncScheduler_InvalidSpec(t *testing.T) {
	f := newCatalogFixture()
	_, err := NewIndexResyncScheduler(f.svc, "every now and then")
	assert.Error(t, err)
}

func TestIndexResyncScheduler_RunOnce(t *testing.T) {
	f := newCatalogFixture()
	s, err := NewIndexResyncScheduler(f.svc, "@every 1h")
	require.NoError(t, err)

	f.index.On("EnsureIndex", mock.Anything).Return(nil).Once()
	f.repo.On("ListProducts", mock.Anything).Return([]pDomain.Product{pen()}, nil).Once()
	f.index.On("IndexProduct", mock.Anything, pen()).Return(nil).Once()
	s.RunOnce(context.Background())

	f.index.On("EnsureIndex", mock.Anything).Return(errors.New("es down")).Once()
	s.RunOnce(context.Background())

	f.assertExpectations(t)

	s.Start()
	s.Stop()
}
