package services_test

import (
	"context"

	"resumebuilder/internal/cache"
	"resumebuilder/internal/models"
	"resumebuilder/pkg/rabbitmq"

	"github.com/stretchr/testify/mock"
)

// MockResumeRepository is a mock implementation of repositories.ResumeRepository
type MockResumeRepository struct {
	mock.Mock
}

func (m *MockResumeRepository) Create(ctx context.Context, header *models.Resume, children models.Children) error {
	args := m.Called(ctx, header, children)
	return args.Error(0)
}

func (m *MockResumeRepository) GetAll(ctx context.Context) ([]models.Resume, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Resume), args.Error(1)
}

func (m *MockResumeRepository) GetByID(ctx context.Context, id string) (*models.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resume), args.Error(1)
}

func (m *MockResumeRepository) GetChildren(ctx context.Context, id string, kind models.CollectionKind) (models.Children, error) {
	args := m.Called(ctx, id, kind)
	return args.Get(0).(models.Children), args.Error(1)
}

func (m *MockResumeRepository) CountChildren(ctx context.Context, id string, kind models.CollectionKind) (int64, error) {
	args := m.Called(ctx, id, kind)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResumeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResumeRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishResumeEvent(ctx context.Context, evt rabbitmq.ResumeEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

// MockDocumentCache is a mock implementation of cache.DocumentCache
type MockDocumentCache struct {
	mock.Mock
}

func (m *MockDocumentCache) Get(ctx context.Context, id string, format cache.Format) ([]byte, bool, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockDocumentCache) Set(ctx context.Context, id string, format cache.Format, data []byte) error {
	args := m.Called(ctx, id, format, data)
	return args.Error(0)
}

func (m *MockDocumentCache) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
