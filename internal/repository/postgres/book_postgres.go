package postgres

import (
	"context"
	"database/sql"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

const bookColumns = `id, registration_code, isbn, doi, title, subtitle, subject, topic,
	collection, edition, publication_year, page_count, authorship, format,
	cover_path, pdf_path, synopsis, created_at, updated_at`

// BookPostgres is a PostgreSQL implementation of repository.BookRepository.
type BookPostgres struct {
	db *sql.DB
}

// NewBookPostgres creates a new BookPostgres repository.
func NewBookPostgres(db *sql.DB) *BookPostgres {
	return &BookPostgres{db: db}
}

var _ repository.BookRepository = (*BookPostgres)(nil)

func scanBook(row interface{ Scan(...any) error }) (*model.Book, error) {
	var b model.Book
	if err := row.Scan(
		&b.ID,
		&b.RegistrationCode,
		&b.ISBN,
		&b.DOI,
		&b.Title,
		&b.Subtitle,
		&b.Subject,
		&b.Topic,
		&b.Collection,
		&b.Edition,
		&b.PublicationYear,
		&b.PageCount,
		&b.Authorship,
		&b.Format,
		&b.CoverPath,
		&b.PDFPath,
		&b.Synopsis,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new book row and returns the stored record.
func (r *BookPostgres) Create(ctx context.Context, b *model.Book) (*model.Book, error) {
	const q = `
		INSERT INTO libros (id, registration_code, isbn, doi, title, subtitle, subject, topic,
			collection, edition, publication_year, page_count, authorship, format,
			cover_path, pdf_path, synopsis, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		RETURNING ` + bookColumns
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.RegistrationCode,
		b.ISBN,
		b.DOI,
		b.Title,
		b.Subtitle,
		b.Subject,
		b.Topic,
		b.Collection,
		b.Edition,
		b.PublicationYear,
		b.PageCount,
		b.Authorship,
		b.Format,
		b.CoverPath,
		b.PDFPath,
		b.Synopsis,
		b.CreatedAt,
	)
	return scanBook(row)
}

// FindByID fetches a single book by its ID.
func (r *BookPostgres) FindByID(ctx context.Context, id string) (*model.Book, error) {
	const q = `SELECT ` + bookColumns + ` FROM libros WHERE id = $1`
	return scanBook(r.db.QueryRowContext(ctx, q, id))
}

// FindByISBN fetches the book holding exactly that ISBN.
func (r *BookPostgres) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	const q = `SELECT ` + bookColumns + ` FROM libros WHERE isbn = $1`
	return scanBook(r.db.QueryRowContext(ctx, q, isbn))
}

// List returns books using LIMIT/OFFSET pagination and a total count.
func (r *BookPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Book], error) {
	const qCount = `SELECT COUNT(*) FROM libros`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + bookColumns + ` FROM libros ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Book]{Items: items, Total: total}, nil
}

// Update replaces all mutable fields of a book row.
func (r *BookPostgres) Update(ctx context.Context, b *model.Book) (*model.Book, error) {
	const q = `
		UPDATE libros SET registration_code = $2, isbn = $3, doi = $4, title = $5, subtitle = $6,
			subject = $7, topic = $8, collection = $9, edition = $10, publication_year = $11,
			page_count = $12, authorship = $13, format = $14, synopsis = $15, updated_at = now()
		WHERE id = $1
		RETURNING ` + bookColumns
	row := r.db.QueryRowContext(ctx, q,
		b.ID,
		b.RegistrationCode,
		b.ISBN,
		b.DOI,
		b.Title,
		b.Subtitle,
		b.Subject,
		b.Topic,
		b.Collection,
		b.Edition,
		b.PublicationYear,
		b.PageCount,
		b.Authorship,
		b.Format,
		b.Synopsis,
	)
	return scanBook(row)
}

// SetFilePaths updates the cover/PDF object keys.
func (r *BookPostgres) SetFilePaths(ctx context.Context, id, coverPath, pdfPath string) error {
	const q = `UPDATE libros SET cover_path = $2, pdf_path = $3, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, coverPath, pdfPath)
	return err
}

// Delete removes a book by ID. It does not return an error if the row does not exist.
func (r *BookPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM libros WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
