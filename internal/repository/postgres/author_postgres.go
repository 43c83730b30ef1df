package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const authorColumns = `id, full_name, email, institution_type, external_institution,
	department_id, academic_unit_id, user_id, created_at, updated_at`

// AuthorPostgres is a PostgreSQL implementation of repository.AuthorRepository.
type AuthorPostgres struct {
	db *sql.DB
}

// NewAuthorPostgres creates a new AuthorPostgres repository.
func NewAuthorPostgres(db *sql.DB) *AuthorPostgres {
	return &AuthorPostgres{db: db}
}

var _ repository.AuthorRepository = (*AuthorPostgres)(nil)

func scanAuthor(row interface{ Scan(...any) error }) (*model.Author, error) {
	var a model.Author
	var dept, unit, user sql.NullString
	if err := row.Scan(
		&a.ID,
		&a.FullName,
		&a.Email,
		&a.InstitutionType,
		&a.ExternalInstitution,
		&dept,
		&unit,
		&user,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	a.DepartmentID = fromNull(dept)
	a.AcademicUnitID = fromNull(unit)
	a.UserID = fromNull(user)
	return &a, nil
}

// Create inserts a new author row and returns the stored record.
func (r *AuthorPostgres) Create(ctx context.Context, a *model.Author) (*model.Author, error) {
	const q = `
		INSERT INTO autores (id, full_name, email, institution_type, external_institution,
			department_id, academic_unit_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING ` + authorColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.FullName,
		a.Email,
		a.InstitutionType,
		a.ExternalInstitution,
		nullUUID(a.DepartmentID),
		nullUUID(a.AcademicUnitID),
		nullUUID(a.UserID),
		a.CreatedAt,
	)
	return scanAuthor(row)
}

// FindByID fetches a single author by ID.
func (r *AuthorPostgres) FindByID(ctx context.Context, id string) (*model.Author, error) {
	const q = `SELECT ` + authorColumns + ` FROM autores WHERE id = $1`
	return scanAuthor(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail matches the email case-insensitively.
func (r *AuthorPostgres) FindByEmail(ctx context.Context, email string) (*model.Author, error) {
	const q = `SELECT ` + authorColumns + ` FROM autores WHERE lower(email) = lower($1)`
	return scanAuthor(r.db.QueryRowContext(ctx, q, email))
}

// FindByName matches the full name case-insensitively.
func (r *AuthorPostgres) FindByName(ctx context.Context, fullName string) (*model.Author, error) {
	const q = `SELECT ` + authorColumns + ` FROM autores WHERE lower(full_name) = lower($1)`
	return scanAuthor(r.db.QueryRowContext(ctx, q, fullName))
}

// List returns authors using LIMIT/OFFSET pagination and a total count.
func (r *AuthorPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Author], error) {
	const qCount = `SELECT COUNT(*) FROM autores`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + authorColumns + ` FROM autores ORDER BY full_name ASC, id ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Author]{Items: items, Total: total}, nil
}

// Update replaces all mutable fields of an author row.
func (r *AuthorPostgres) Update(ctx context.Context, a *model.Author) (*model.Author, error) {
	const q = `
		UPDATE autores SET full_name = $2, email = $3, institution_type = $4,
			external_institution = $5, department_id = $6, academic_unit_id = $7,
			user_id = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + authorColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.FullName,
		a.Email,
		a.InstitutionType,
		a.ExternalInstitution,
		nullUUID(a.DepartmentID),
		nullUUID(a.AcademicUnitID),
		nullUUID(a.UserID),
	)
	return scanAuthor(row)
}

// Delete removes an author by ID. The author's own libro_autor rows cascade;
// links belonging to other authors are untouched.
func (r *AuthorPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM autores WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
