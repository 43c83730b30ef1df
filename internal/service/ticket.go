package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/realtime"
	"catalogapi/internal/repository"
)

// TicketInput is the support-ticket create payload. UserID is filled from the
// session when the sender is logged in.
type TicketInput struct {
	UserID  string `json:"-"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// TicketListResult is the service-level DTO for paginated tickets.
type TicketListResult struct {
	Items []model.SupportTicket `json:"data"`
	Total int                   `json:"total"`
}

// TicketService manages support tickets.
type TicketService interface {
	Create(ctx context.Context, in TicketInput) (*model.SupportTicket, error)
	Get(ctx context.Context, id string) (*model.SupportTicket, error)
	List(ctx context.Context, limit, offset int) (*TicketListResult, error)
	SetStatus(ctx context.Context, id string, status model.TicketStatus) (*model.SupportTicket, error)
	Delete(ctx context.Context, id string) error
}

type ticketService struct {
	tickets repository.TicketRepository
	events  realtime.Publisher
}

// NewTicketService constructs a TicketService.
func NewTicketService(tickets repository.TicketRepository, events realtime.Publisher) TicketService {
	return &ticketService{tickets: tickets, events: events}
}

var ticketTransitions = map[model.TicketStatus][]model.TicketStatus{
	model.TicketOpen:       {model.TicketInProgress, model.TicketResolved},
	model.TicketInProgress: {model.TicketResolved, model.TicketOpen},
}

func (s *ticketService) Create(ctx context.Context, in TicketInput) (*model.SupportTicket, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	t := &model.SupportTicket{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.TicketOpen,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.tickets.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "soporte", Action: realtime.ActionInsert, ID: stored.ID})
	return stored, nil
}

func (s *ticketService) Get(ctx context.Context, id string) (*model.SupportTicket, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *ticketService) List(ctx context.Context, limit, offset int) (*TicketListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.tickets.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &TicketListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *ticketService) SetStatus(ctx context.Context, id string, status model.TicketStatus) (*model.SupportTicket, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, next := range ticketTransitions[t.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrBadStatusTransition
	}
	if err := s.tickets.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set ticket status: %w", err)
	}
	t.Status = status
	s.events.Publish(realtime.Event{Table: "soporte", Action: realtime.ActionUpdate, ID: id})
	return t, nil
}

func (s *ticketService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Event{Table: "soporte", Action: realtime.ActionDelete, ID: id})
	return nil
}
