package repository

import (
	"context"

	"catalogapi/internal/model"
)

// AuthorRepository defines data access for authors.
type AuthorRepository interface {
	Create(ctx context.Context, a *model.Author) (*model.Author, error)
	FindByID(ctx context.Context, id string) (*model.Author, error)

	// FindByEmail matches case-insensitively, or returns sql.ErrNoRows.
	FindByEmail(ctx context.Context, email string) (*model.Author, error)

	// FindByName matches the normalized full name case-insensitively.
	FindByName(ctx context.Context, fullName string) (*model.Author, error)

	List(ctx context.Context, pq PageQuery) (*PageResult[model.Author], error)
	Update(ctx context.Context, a *model.Author) (*model.Author, error)

	// Delete removes the author row. Only that author's own link rows cascade.
	Delete(ctx context.Context, id string) error
}

// BookAuthorRepository manages the libro_autor relation.
type BookAuthorRepository interface {
	// ReplaceLinks rewrites the authorship of a book in a single transaction:
	// the principal is removed from the co-author and co-editor sets, existing
	// rows under any recognized spelling of each role are deleted, and the new
	// rows are inserted. Exactly one principal-author row results.
	ReplaceLinks(ctx context.Context, bookID, principalID string, coAuthorIDs, coEditorIDs []string) error

	// ListByBook returns all link rows for a book.
	ListByBook(ctx context.Context, bookID string) ([]model.BookAuthorLink, error)

	// ListByAuthor returns all link rows for an author.
	ListByAuthor(ctx context.Context, authorID string) ([]model.BookAuthorLink, error)
}

// OrgRepository exposes the dependency/academic-unit lookup tables.
type OrgRepository interface {
	ListActiveDepartments(ctx context.Context) ([]model.Department, error)
	FindDepartment(ctx context.Context, id string) (*model.Department, error)
	FindAcademicUnit(ctx context.Context, id string) (*model.AcademicUnit, error)
	ListUnitsByDepartment(ctx context.Context, departmentID string) ([]model.AcademicUnit, error)
}
