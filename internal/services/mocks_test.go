package services

import (
	"context"

	"happy-thoughts-backend/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockThoughtRepository struct {
	mock.Mock
}

func (m *MockThoughtRepository) ListRecent(ctx context.Context, limit int) ([]*models.Thought, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Thought), args.Error(1)
}

func (m *MockThoughtRepository) GetByID(ctx context.Context, id string) (*models.Thought, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thought), args.Error(1)
}

func (m *MockThoughtRepository) Create(ctx context.Context, thought *models.Thought) error {
	args := m.Called(ctx, thought)
	return args.Error(0)
}

func (m *MockThoughtRepository) UpdateMessage(ctx context.Context, id, message string) (*models.Thought, error) {
	args := m.Called(ctx, id, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thought), args.Error(1)
}

func (m *MockThoughtRepository) IncrementHearts(ctx context.Context, id string) (*models.Thought, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Thought), args.Error(1)
}

func (m *MockThoughtRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event FeedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
