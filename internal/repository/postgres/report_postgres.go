package postgres

import (
	"context"
	"database/sql"
	"strings"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// ReportPostgres implements repository.ReportRepository with read-only queries.
// Every query carries a deterministic ORDER BY so exports are reproducible.
type ReportPostgres struct {
	db *sql.DB
}

// NewReportPostgres creates a new ReportPostgres repository.
func NewReportPostgres(db *sql.DB) *ReportPostgres {
	return &ReportPostgres{db: db}
}

var _ repository.ReportRepository = (*ReportPostgres)(nil)

// BookRows returns every book ordered by title.
func (r *ReportPostgres) BookRows(ctx context.Context) ([]model.Book, error) {
	const q = `SELECT ` + bookColumns + ` FROM libros ORDER BY title, id`
	rows, err := r.db.QueryContext(ctx, q)
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
	return items, rows.Err()
}

// AuthorRows returns every author ordered by name.
func (r *ReportPostgres) AuthorRows(ctx context.Context) ([]model.Author, error) {
	const q = `SELECT ` + authorColumns + ` FROM autores ORDER BY full_name, id`
	rows, err := r.db.QueryContext(ctx, q)
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
	return items, rows.Err()
}

// UserRows returns every platform user ordered by name.
func (r *ReportPostgres) UserRows(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM usuarios ORDER BY last_name, first_name, id`
	rows, err := r.db.QueryContext(ctx, q)
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
	return items, rows.Err()
}

// ReaderRows returns every reader ordered by name.
func (r *ReportPostgres) ReaderRows(ctx context.Context) ([]model.Reader, error) {
	const q = `SELECT ` + readerColumns + ` FROM lectores ORDER BY last_name, first_name, id`
	rows, err := r.db.QueryContext(ctx, q)
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
	return items, rows.Err()
}

// RequestRows returns requests joined with their reader and book display fields.
func (r *ReportPostgres) RequestRows(ctx context.Context) ([]repository.RequestRow, error) {
	const q = `
		SELECT s.id, s.reader_id, s.book_id, s.reason, s.status, s.created_at, s.updated_at,
			l.first_name || ' ' || l.last_name, b.title
		FROM solicitudes s
		JOIN lectores l ON l.id = s.reader_id
		JOIN libros b ON b.id = s.book_id
		ORDER BY s.created_at DESC, s.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.RequestRow, 0)
	for rows.Next() {
		var rr repository.RequestRow
		if err := rows.Scan(
			&rr.Request.ID,
			&rr.Request.ReaderID,
			&rr.Request.BookID,
			&rr.Request.Reason,
			&rr.Request.Status,
			&rr.Request.CreatedAt,
			&rr.Request.UpdatedAt,
			&rr.ReaderName,
			&rr.BookTitle,
		); err != nil {
			return nil, err
		}
		items = append(items, rr)
	}
	return items, rows.Err()
}

// TicketRows returns every support ticket, newest first.
func (r *ReportPostgres) TicketRows(ctx context.Context) ([]model.SupportTicket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM soporte ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q)
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
	return items, rows.Err()
}

// CatalogRows joins books with their principal author and aggregated co-authors.
func (r *ReportPostgres) CatalogRows(ctx context.Context) ([]repository.CatalogRow, error) {
	// string_agg keeps the scan to plain text columns; the service splits it.
	const q = `
		SELECT b.title, b.isbn, b.publication_year,
			COALESCE(p.full_name, ''),
			COALESCE(string_agg(c.full_name, '; ' ORDER BY c.full_name), '')
		FROM libros b
		LEFT JOIN libro_autor lp ON lp.book_id = b.id AND lp.role = 'principal-author'
		LEFT JOIN autores p ON p.id = lp.author_id
		LEFT JOIN libro_autor lc ON lc.book_id = b.id AND lc.role = 'co-author'
		LEFT JOIN autores c ON c.id = lc.author_id
		GROUP BY b.id, b.title, b.isbn, b.publication_year, p.full_name
		ORDER BY b.title, b.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.CatalogRow, 0)
	for rows.Next() {
		var cr repository.CatalogRow
		var coAgg string
		if err := rows.Scan(&cr.Title, &cr.ISBN, &cr.Year, &cr.Principal, &coAgg); err != nil {
			return nil, err
		}
		if coAgg != "" {
			cr.CoAuthors = strings.Split(coAgg, "; ")
		}
		items = append(items, cr)
	}
	return items, rows.Err()
}

// AttachmentRows returns attachments joined with their book title.
func (r *ReportPostgres) AttachmentRows(ctx context.Context) ([]repository.AttachmentRow, error) {
	const q = `
		SELECT b.title, a.id, a.book_id, a.type, a.origin, a.storage_path, a.external_url,
			a.note, a.size, a.content_type, a.created_at, a.updated_at
		FROM libro_adjuntos a
		JOIN libros b ON b.id = a.book_id
		ORDER BY b.title, a.type, a.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]repository.AttachmentRow, 0)
	for rows.Next() {
		var ar repository.AttachmentRow
		if err := rows.Scan(
			&ar.BookTitle,
			&ar.Attachment.ID,
			&ar.Attachment.BookID,
			&ar.Attachment.Type,
			&ar.Attachment.Origin,
			&ar.Attachment.StoragePath,
			&ar.Attachment.ExternalURL,
			&ar.Attachment.Note,
			&ar.Attachment.Size,
			&ar.Attachment.ContentType,
			&ar.Attachment.CreatedAt,
			&ar.Attachment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, ar)
	}
	return items, rows.Err()
}
