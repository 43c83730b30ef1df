package repository

import (
	"context"

	"catalogapi/internal/model"
)

// BookRepository defines data access for catalog books using SQL queries only.
// No business logic here — strictly persistence operations.
type BookRepository interface {
	// Create inserts a new book row and returns the stored record.
	Create(ctx context.Context, b *model.Book) (*model.Book, error)

	// FindByID returns a book by its ID.
	FindByID(ctx context.Context, id string) (*model.Book, error)

	// FindByISBN returns the book carrying exactly that ISBN, or sql.ErrNoRows.
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)

	// List returns a paginated list of books and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Book], error)

	// Update replaces all mutable fields of a book.
	Update(ctx context.Context, b *model.Book) (*model.Book, error)

	// SetFilePaths updates the stored cover/PDF object keys.
	SetFilePaths(ctx context.Context, id, coverPath, pdfPath string) error

	// Delete removes a book by ID. Link and attachment rows cascade.
	Delete(ctx context.Context, id string) error
}
