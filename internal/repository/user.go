package repository

import (
	"context"

	"catalogapi/internal/model"
)

// UserRepository defines data access for platform users.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail matches case-insensitively, or returns sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	List(ctx context.Context, pq PageQuery) (*PageResult[model.User], error)
	Update(ctx context.Context, u *model.User) (*model.User, error)

	// SetIsAuthor flags a user as linked to an author row.
	SetIsAuthor(ctx context.Context, id string, isAuthor bool) error

	// SetPhotoPath updates the stored profile photo object key.
	SetPhotoPath(ctx context.Context, id, photoPath string) error

	Delete(ctx context.Context, id string) error
}

// ReaderRepository defines data access for external readers.
type ReaderRepository interface {
	Create(ctx context.Context, r *model.Reader) (*model.Reader, error)
	FindByID(ctx context.Context, id string) (*model.Reader, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Reader], error)
	Update(ctx context.Context, r *model.Reader) (*model.Reader, error)
	Delete(ctx context.Context, id string) error
}

// RequestRepository defines data access for book requests.
type RequestRepository interface {
	Create(ctx context.Context, r *model.Request) (*model.Request, error)
	FindByID(ctx context.Context, id string) (*model.Request, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Request], error)
	SetStatus(ctx context.Context, id string, status model.RequestStatus) error
	Delete(ctx context.Context, id string) error
}

// TicketRepository defines data access for support tickets.
type TicketRepository interface {
	Create(ctx context.Context, t *model.SupportTicket) (*model.SupportTicket, error)
	FindByID(ctx context.Context, id string) (*model.SupportTicket, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.SupportTicket], error)
	SetStatus(ctx context.Context, id string, status model.TicketStatus) error
	Delete(ctx context.Context, id string) error
}
