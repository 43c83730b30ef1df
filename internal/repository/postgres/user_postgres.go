package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const userColumns = `id, first_name, last_name, email, role, is_author, active,
	photo_path, password_hash, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Role,
		&u.IsAuthor,
		&u.Active,
		&u.PhotoPath,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO usuarios (id, first_name, last_name, email, role, is_author, active,
			photo_path, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Role,
		u.IsAuthor,
		u.Active,
		u.PhotoPath,
		u.PasswordHash,
		u.CreatedAt,
	)
	return scanUser(row)
}

// FindByID fetches a single user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail matches the email case-insensitively.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, q, email))
}

// List returns users using LIMIT/OFFSET pagination and a total count.
func (r *UserPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	const qCount = `SELECT COUNT(*) FROM usuarios`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + userColumns + ` FROM usuarios ORDER BY last_name ASC, first_name ASC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}

// Update replaces the mutable profile fields of a user row. The password hash
// is updated only when a new one is provided.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		UPDATE usuarios SET first_name = $2, last_name = $3, email = $4, role = $5,
			active = $6,
			password_hash = CASE WHEN $7 = '' THEN password_hash ELSE $7 END,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Role,
		u.Active,
		u.PasswordHash,
	)
	return scanUser(row)
}

// SetIsAuthor flags a user as linked to an author row.
func (r *UserPostgres) SetIsAuthor(ctx context.Context, id string, isAuthor bool) error {
	const q = `UPDATE usuarios SET is_author = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, isAuthor)
	return err
}

// SetPhotoPath updates the profile photo object key.
func (r *UserPostgres) SetPhotoPath(ctx context.Context, id, photoPath string) error {
	const q = `UPDATE usuarios SET photo_path = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, photoPath)
	return err
}

// Delete removes a user by ID.
func (r *UserPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM usuarios WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
