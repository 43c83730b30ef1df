package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const requestColumns = `id, reader_id, book_id, reason, status, created_at, updated_at`

// RequestPostgres is a PostgreSQL implementation of repository.RequestRepository.
type RequestPostgres struct {
	db *sql.DB
}

// NewRequestPostgres creates a new RequestPostgres repository.
func NewRequestPostgres(db *sql.DB) *RequestPostgres {
	return &RequestPostgres{db: db}
}

var _ repository.RequestRepository = (*RequestPostgres)(nil)

func scanRequest(row interface{ Scan(...any) error }) (*model.Request, error) {
	var rq model.Request
	if err := row.Scan(
		&rq.ID,
		&rq.ReaderID,
		&rq.BookID,
		&rq.Reason,
		&rq.Status,
		&rq.CreatedAt,
		&rq.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rq, nil
}

// Create inserts a new request row and returns the stored record.
func (r *RequestPostgres) Create(ctx context.Context, rq *model.Request) (*model.Request, error) {
	const q = `
		INSERT INTO solicitudes (id, reader_id, book_id, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + requestColumns
	row := r.db.QueryRowContext(ctx, q,
		rq.ID,
		rq.ReaderID,
		rq.BookID,
		rq.Reason,
		rq.Status,
		rq.CreatedAt,
	)
	return scanRequest(row)
}

// FindByID fetches a single request by ID.
func (r *RequestPostgres) FindByID(ctx context.Context, id string) (*model.Request, error) {
	const q = `SELECT ` + requestColumns + ` FROM solicitudes WHERE id = $1`
	return scanRequest(r.db.QueryRowContext(ctx, q, id))
}

// List returns requests using LIMIT/OFFSET pagination and a total count.
func (r *RequestPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Request], error) {
	const qCount = `SELECT COUNT(*) FROM solicitudes`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + requestColumns + ` FROM solicitudes ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Request, 0)
	for rows.Next() {
		rq, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Request]{Items: items, Total: total}, nil
}

// SetStatus moves a request to a new workflow state.
func (r *RequestPostgres) SetStatus(ctx context.Context, id string, status model.RequestStatus) error {
	const q = `UPDATE solicitudes SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

// Delete removes a request by ID.
func (r *RequestPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM solicitudes WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
