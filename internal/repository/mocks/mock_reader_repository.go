package mocks

import (
	"context"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockReaderRepository struct {
	mock.Mock
}

func (m *MockReaderRepository) Create(ctx context.Context, r *model.Reader) (*model.Reader, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderRepository) FindByID(ctx context.Context, id string) (*model.Reader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Reader], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Reader]), args.Error(1)
}

func (m *MockReaderRepository) Update(ctx context.Context, r *model.Reader) (*model.Reader, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
