package repository

import (
	"context"

	"catalogapi/internal/model"
)

// CatalogRow is a joined book/authorship row for the catalog report.
type CatalogRow struct {
	Title     string
	ISBN      string
	Principal string
	CoAuthors []string
	Year      int
}

// AttachmentRow is a joined attachment row carrying its book title.
type AttachmentRow struct {
	BookTitle  string
	Attachment model.Attachment
}

// RequestRow is a joined request row carrying reader and book display fields.
type RequestRow struct {
	Request    model.Request
	ReaderName string
	BookTitle  string
}

// ReportRepository provides the read-only row sets the report screens export.
// Rows are ordered deterministically so PDF and XLSX output match.
type ReportRepository interface {
	BookRows(ctx context.Context) ([]model.Book, error)
	AuthorRows(ctx context.Context) ([]model.Author, error)
	UserRows(ctx context.Context) ([]model.User, error)
	ReaderRows(ctx context.Context) ([]model.Reader, error)
	RequestRows(ctx context.Context) ([]RequestRow, error)
	TicketRows(ctx context.Context) ([]model.SupportTicket, error)
	CatalogRows(ctx context.Context) ([]CatalogRow, error)
	AttachmentRows(ctx context.Context) ([]AttachmentRow, error)
}
