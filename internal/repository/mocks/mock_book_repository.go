package mocks

import (
	"context"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Book], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Book]), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) SetFilePaths(ctx context.Context, id, coverPath, pdfPath string) error {
	args := m.Called(ctx, id, coverPath, pdfPath)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
