package mocks

import (
	"context"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *model.SupportTicket) (*model.SupportTicket, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id string) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.SupportTicket], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.SupportTicket]), args.Error(1)
}

func (m *MockTicketRepository) SetStatus(ctx context.Context, id string, status model.TicketStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockTicketRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
