package mocks

import (
	"context"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockReaderService struct {
	mock.Mock
}

func (m *MockReaderService) Create(ctx context.Context, in service.ReaderInput) (*model.Reader, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderService) Get(ctx context.Context, id string) (*model.Reader, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderService) List(ctx context.Context, limit, offset int) (*service.ReaderListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReaderListResult), args.Error(1)
}

func (m *MockReaderService) Update(ctx context.Context, id string, in service.ReaderInput) (*model.Reader, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reader), args.Error(1)
}

func (m *MockReaderService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
