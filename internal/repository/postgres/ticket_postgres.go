package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const ticketColumns = `id, user_id, email, subject, message, status, created_at, updated_at`

// TicketPostgres is a PostgreSQL implementation of repository.TicketRepository.
type TicketPostgres struct {
	db *sql.DB
}

// NewTicketPostgres creates a new TicketPostgres repository.
func NewTicketPostgres(db *sql.DB) *TicketPostgres {
	return &TicketPostgres{db: db}
}

var _ repository.TicketRepository = (*TicketPostgres)(nil)

func scanTicket(row interface{ Scan(...any) error }) (*model.SupportTicket, error) {
	var t model.SupportTicket
	var userID sql.NullString
	if err := row.Scan(
		&t.ID,
		&userID,
		&t.Email,
		&t.Subject,
		&t.Message,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.UserID = fromNull(userID)
	return &t, nil
}

// Create inserts a new ticket row and returns the stored record.
func (r *TicketPostgres) Create(ctx context.Context, t *model.SupportTicket) (*model.SupportTicket, error) {
	const q = `
		INSERT INTO soporte (id, user_id, email, subject, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING ` + ticketColumns
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		nullUUID(t.UserID),
		t.Email,
		t.Subject,
		t.Message,
		t.Status,
		t.CreatedAt,
	)
	return scanTicket(row)
}

// FindByID fetches a single ticket by ID.
func (r *TicketPostgres) FindByID(ctx context.Context, id string) (*model.SupportTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM soporte WHERE id = $1`
	return scanTicket(r.db.QueryRowContext(ctx, q, id))
}

// List returns tickets using LIMIT/OFFSET pagination and a total count.
func (r *TicketPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.SupportTicket], error) {
	const qCount = `SELECT COUNT(*) FROM soporte`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + ticketColumns + ` FROM soporte ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SupportTicket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.SupportTicket]{Items: items, Total: total}, nil
}

// SetStatus moves a ticket to a new workflow state.
func (r *TicketPostgres) SetStatus(ctx context.Context, id string, status model.TicketStatus) error {
	const q = `UPDATE soporte SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

// Delete removes a ticket by ID.
func (r *TicketPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM soporte WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
