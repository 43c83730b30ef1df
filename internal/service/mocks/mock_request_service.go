package mocks

import (
	"context"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Create(ctx context.Context, in service.RequestInput) (*model.Request, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestService) Get(ctx context.Context, id string) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestService) List(ctx context.Context, limit, offset int) (*service.RequestListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RequestListResult), args.Error(1)
}

func (m *MockRequestService) SetStatus(ctx context.Context, id string, status model.RequestStatus) (*model.Request, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *MockRequestService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Create(ctx context.Context, in service.TicketInput) (*model.SupportTicket, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketService) Get(ctx context.Context, id string) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, limit, offset int) (*service.TicketListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TicketListResult), args.Error(1)
}

func (m *MockTicketService) SetStatus(ctx context.Context, id string, status model.TicketStatus) (*model.SupportTicket, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
