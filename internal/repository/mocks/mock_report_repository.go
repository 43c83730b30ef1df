package mocks

import (
	"context"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) BookRows(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *MockReportRepository) AuthorRows(ctx context.Context) ([]model.Author, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Author), args.Error(1)
}

func (m *MockReportRepository) UserRows(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockReportRepository) ReaderRows(ctx context.Context) ([]model.Reader, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reader), args.Error(1)
}

func (m *MockReportRepository) RequestRows(ctx context.Context) ([]repository.RequestRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RequestRow), args.Error(1)
}

func (m *MockReportRepository) TicketRows(ctx context.Context) ([]model.SupportTicket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SupportTicket), args.Error(1)
}

func (m *MockReportRepository) CatalogRows(ctx context.Context) ([]repository.CatalogRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CatalogRow), args.Error(1)
}

func (m *MockReportRepository) AttachmentRows(ctx context.Context) ([]repository.AttachmentRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AttachmentRow), args.Error(1)
}
