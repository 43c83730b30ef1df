package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// ReaderInput is the reader create/update payload.
type ReaderInput struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Institution string `json:"institution"`
}

// ReaderListResult is the service-level DTO for paginated readers.
type ReaderListResult struct {
	Items []model.Reader `json:"data"`
	Total int            `json:"total"`
}

// ReaderService manages external library readers.
type ReaderService interface {
	Create(ctx context.Context, in ReaderInput) (*model.Reader, error)
	Get(ctx context.Context, id string) (*model.Reader, error)
	List(ctx context.Context, limit, offset int) (*ReaderListResult, error)
	Update(ctx context.Context, id string, in ReaderInput) (*model.Reader, error)
	Delete(ctx context.Context, id string) error
}

type readerService struct {
	readers repository.ReaderRepository
}

// NewReaderService constructs a ReaderService.
func NewReaderService(readers repository.ReaderRepository) ReaderService {
	return &readerService{readers: readers}
}

func (s *readerService) Create(ctx context.Context, in ReaderInput) (*model.Reader, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	rd := &model.Reader{
		ID:          uuid.New().String(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Institution: in.Institution,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.readers.Create(ctx, rd)
	if err != nil {
		return nil, fmt.Errorf("create reader: %w", err)
	}
	return stored, nil
}

func (s *readerService) Get(ctx context.Context, id string) (*model.Reader, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	rd, err := s.readers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rd, nil
}

func (s *readerService) List(ctx context.Context, limit, offset int) (*ReaderListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.readers.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ReaderListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *readerService) Update(ctx context.Context, id string, in ReaderInput) (*model.Reader, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.readers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	current.FirstName = in.FirstName
	current.LastName = in.LastName
	current.Email = in.Email
	current.Institution = in.Institution
	stored, err := s.readers.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("update reader: %w", err)
	}
	return stored, nil
}

func (s *readerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.readers.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.readers.Delete(ctx, id)
}
