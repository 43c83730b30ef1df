package mocks

import (
	"context"
	"io"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) Create(ctx context.Context, in service.BookInput) (*model.Book, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) Get(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) List(ctx context.Context, limit, offset int) (*service.BookListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookListResult), args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, id string, in service.BookInput) (*model.Book, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookService) SetAuthors(ctx context.Context, bookID string, in service.BookAuthorsInput) ([]model.BookAuthorLink, error) {
	args := m.Called(ctx, bookID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookAuthorLink), args.Error(1)
}

func (m *MockBookService) Authors(ctx context.Context, bookID string) ([]model.BookAuthorLink, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookAuthorLink), args.Error(1)
}

func (m *MockBookService) UploadCover(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error) {
	args := m.Called(ctx, bookID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookService) UploadPDF(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error) {
	args := m.Called(ctx, bookID, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}
