package mocks

import (
	"context"

	"catalogapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockBookAuthorRepository struct {
	mock.Mock
}

func (m *MockBookAuthorRepository) ReplaceLinks(ctx context.Context, bookID, principalID string, coAuthorIDs, coEditorIDs []string) error {
	args := m.Called(ctx, bookID, principalID, coAuthorIDs, coEditorIDs)
	return args.Error(0)
}

func (m *MockBookAuthorRepository) ListByBook(ctx context.Context, bookID string) ([]model.BookAuthorLink, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookAuthorLink), args.Error(1)
}

func (m *MockBookAuthorRepository) ListByAuthor(ctx context.Context, authorID string) ([]model.BookAuthorLink, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookAuthorLink), args.Error(1)
}
