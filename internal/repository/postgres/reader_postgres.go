package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const readerColumns = `id, first_name, last_name, email, institution, created_at, updated_at`

// ReaderPostgres is a PostgreSQL implementation of repository.ReaderRepository.
type ReaderPostgres struct {
	db *sql.DB
}

// NewReaderPostgres creates a new ReaderPostgres repository.
func NewReaderPostgres(db *sql.DB) *ReaderPostgres {
	return &ReaderPostgres{db: db}
}

var _ repository.ReaderRepository = (*ReaderPostgres)(nil)

func scanReader(row interface{ Scan(...any) error }) (*model.Reader, error) {
	var rd model.Reader
	if err := row.Scan(
		&rd.ID,
		&rd.FirstName,
		&rd.LastName,
		&rd.Email,
		&rd.Institution,
		&rd.CreatedAt,
		&rd.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rd, nil
}

// Create inserts a new reader row and returns the stored record.
func (r *ReaderPostgres) Create(ctx context.Context, rd *model.Reader) (*model.Reader, error) {
	const q = `
		INSERT INTO lectores (id, first_name, last_name, email, institution, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + readerColumns
	row := r.db.QueryRowContext(ctx, q,
		rd.ID,
		rd.FirstName,
		rd.LastName,
		rd.Email,
		rd.Institution,
		rd.CreatedAt,
	)
	return scanReader(row)
}

// FindByID fetches a single reader by ID.
func (r *ReaderPostgres) FindByID(ctx context.Context, id string) (*model.Reader, error) {
	const q = `SELECT ` + readerColumns + ` FROM lectores WHERE id = $1`
	return scanReader(r.db.QueryRowContext(ctx, q, id))
}

// List returns readers using LIMIT/OFFSET pagination and a total count.
func (r *ReaderPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Reader], error) {
	const qCount = `SELECT COUNT(*) FROM lectores`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + readerColumns + ` FROM lectores ORDER BY last_name ASC, first_name ASC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Reader, 0)
	for rows.Next() {
		rd, err := scanReader(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Reader]{Items: items, Total: total}, nil
}

// Update replaces all mutable fields of a reader row.
func (r *ReaderPostgres) Update(ctx context.Context, rd *model.Reader) (*model.Reader, error) {
	const q = `
		UPDATE lectores SET first_name = $2, last_name = $3, email = $4, institution = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + readerColumns
	row := r.db.QueryRowContext(ctx, q,
		rd.ID,
		rd.FirstName,
		rd.LastName,
		rd.Email,
		rd.Institution,
	)
	return scanReader(row)
}

// Delete removes a reader by ID.
func (r *ReaderPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM lectores WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
