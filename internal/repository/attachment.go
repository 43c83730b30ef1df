package repository

import (
	"context"

	"catalogapi/internal/model"
)

// AttachmentRepository defines data access for book attachments (expedientes).
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, id string) (*model.Attachment, error)
	ListByBook(ctx context.Context, bookID string) ([]model.Attachment, error)

	// FindByBookAndType returns the attachment of a singleton category for the
	// given book, or sql.ErrNoRows when none exists.
	FindByBookAndType(ctx context.Context, bookID string, typ model.AttachmentType) (*model.Attachment, error)

	Update(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	Delete(ctx context.Context, id string) error
}
