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

var ErrBadStatusTransition = errors.New("status transition not allowed")

// RequestInput is the book-request create payload.
type RequestInput struct {
	ReaderID string `json:"reader_id" validate:"required,uuid4"`
	BookID   string `json:"book_id" validate:"required,uuid4"`
	Reason   string `json:"reason"`
}

// RequestListResult is the service-level DTO for paginated requests.
type RequestListResult struct {
	Items []model.Request `json:"data"`
	Total int             `json:"total"`
}

// RequestService manages reader requests for catalog titles.
type RequestService interface {
	Create(ctx context.Context, in RequestInput) (*model.Request, error)
	Get(ctx context.Context, id string) (*model.Request, error)
	List(ctx context.Context, limit, offset int) (*RequestListResult, error)
	SetStatus(ctx context.Context, id string, status model.RequestStatus) (*model.Request, error)
	Delete(ctx context.Context, id string) error
}

type requestService struct {
	requests repository.RequestRepository
	readers  repository.ReaderRepository
	books    repository.BookRepository
	events   realtime.Publisher
}

// NewRequestService constructs a RequestService.
func NewRequestService(requests repository.RequestRepository, readers repository.ReaderRepository, books repository.BookRepository, events realtime.Publisher) RequestService {
	return &requestService{requests: requests, readers: readers, books: books, events: events}
}

// requestTransitions: pending may be decided, decided requests may be closed.
var requestTransitions = map[model.RequestStatus][]model.RequestStatus{
	model.RequestPending:  {model.RequestApproved, model.RequestRejected, model.RequestClosed},
	model.RequestApproved: {model.RequestClosed},
	model.RequestRejected: {model.RequestClosed},
}

func (s *requestService) Create(ctx context.Context, in RequestInput) (*model.Request, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if _, err := s.readers.FindByID(ctx, in.ReaderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.books.FindByID(ctx, in.BookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rq := &model.Request{
		ID:        uuid.New().String(),
		ReaderID:  in.ReaderID,
		BookID:    in.BookID,
		Reason:    in.Reason,
		Status:    model.RequestPending,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.requests.Create(ctx, rq)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "solicitudes", Action: realtime.ActionInsert, ID: stored.ID})
	return stored, nil
}

func (s *requestService) Get(ctx context.Context, id string) (*model.Request, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rq, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rq, nil
}

func (s *requestService) List(ctx context.Context, limit, offset int) (*RequestListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.requests.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &RequestListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *requestService) SetStatus(ctx context.Context, id string, status model.RequestStatus) (*model.Request, error) {
	rq, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, next := range requestTransitions[rq.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrBadStatusTransition
	}
	if err := s.requests.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set request status: %w", err)
	}
	rq.Status = status
	s.events.Publish(realtime.Event{Table: "solicitudes", Action: realtime.ActionUpdate, ID: id})
	return rq, nil
}

func (s *requestService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Event{Table: "solicitudes", Action: realtime.ActionDelete, ID: id})
	return nil
}
