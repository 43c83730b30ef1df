package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const attachmentColumns = `id, book_id, type, origin, storage_path, external_url,
	note, size, content_type, created_at, updated_at`

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

func scanAttachment(row interface{ Scan(...any) error }) (*model.Attachment, error) {
	var a model.Attachment
	if err := row.Scan(
		&a.ID,
		&a.BookID,
		&a.Type,
		&a.Origin,
		&a.StoragePath,
		&a.ExternalURL,
		&a.Note,
		&a.Size,
		&a.ContentType,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO libro_adjuntos (id, book_id, type, origin, storage_path, external_url,
			note, size, content_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + attachmentColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.BookID,
		a.Type,
		a.Origin,
		a.StoragePath,
		a.ExternalURL,
		a.Note,
		a.Size,
		a.ContentType,
		a.CreatedAt,
	)
	return scanAttachment(row)
}

// FindByID fetches a single attachment by ID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM libro_adjuntos WHERE id = $1`
	return scanAttachment(r.db.QueryRowContext(ctx, q, id))
}

// ListByBook returns all attachments of a book ordered by category.
func (r *AttachmentPostgres) ListByBook(ctx context.Context, bookID string) ([]model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM libro_adjuntos WHERE book_id = $1 ORDER BY type, created_at`
	rows, err := r.db.QueryContext(ctx, q, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindByBookAndType returns the attachment of a given category for a book.
func (r *AttachmentPostgres) FindByBookAndType(ctx context.Context, bookID string, typ model.AttachmentType) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM libro_adjuntos WHERE book_id = $1 AND type = $2 ORDER BY created_at LIMIT 1`
	return scanAttachment(r.db.QueryRowContext(ctx, q, bookID, typ))
}

// Update replaces all mutable fields of an attachment row.
func (r *AttachmentPostgres) Update(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		UPDATE libro_adjuntos SET type = $2, origin = $3, storage_path = $4, external_url = $5,
			note = $6, size = $7, content_type = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + attachmentColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.Type,
		a.Origin,
		a.StoragePath,
		a.ExternalURL,
		a.Note,
		a.Size,
		a.ContentType,
	)
	return scanAttachment(row)
}

// Delete removes an attachment by ID.
func (r *AttachmentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM libro_adjuntos WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
