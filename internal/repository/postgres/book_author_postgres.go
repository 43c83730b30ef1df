package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

// Role spellings that accumulated in the relation over time. Deletes match all
// of them; writes always use the canonical value.
var (
	principalSpellings = []string{string(model.RolePrincipalAuthor), "principal_author", "autor principal", "Autor Principal"}
	coAuthorSpellings  = []string{string(model.RoleCoAuthor), "co_author", "coautor", "Coautor"}
	coEditorSpellings  = []string{string(model.RoleCoEditor), "co_editor", "coeditor", "Coeditor"}
)

// BookAuthorPostgres is a PostgreSQL implementation of repository.BookAuthorRepository.
type BookAuthorPostgres struct {
	db *sql.DB
}

// NewBookAuthorPostgres creates a new BookAuthorPostgres repository.
func NewBookAuthorPostgres(db *sql.DB) *BookAuthorPostgres {
	return &BookAuthorPostgres{db: db}
}

var _ repository.BookAuthorRepository = (*BookAuthorPostgres)(nil)

// ReplaceLinks rewrites a book's authorship rows inside one transaction.
// The principal is excluded from the co-author and co-editor sets before any
// row is touched, so a failure cannot leave the principal duplicated.
func (r *BookAuthorPostgres) ReplaceLinks(ctx context.Context, bookID, principalID string, coAuthorIDs, coEditorIDs []string) error {
	coAuthors := excludeID(coAuthorIDs, principalID)
	coEditors := excludeID(coEditorIDs, principalID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace links: %w", err)
	}
	defer tx.Rollback()

	const qDelete = `DELETE FROM libro_autor WHERE book_id = $1 AND role = ANY($2)`
	const qInsertSet = `
		INSERT INTO libro_autor (book_id, author_id, role)
		SELECT $1, unnest($2::uuid[]), $3`
	const qInsertOne = `INSERT INTO libro_autor (book_id, author_id, role) VALUES ($1, $2, $3)`

	if _, err := tx.ExecContext(ctx, qDelete, bookID, coAuthorSpellings); err != nil {
		return fmt.Errorf("delete co-author rows: %w", err)
	}
	if len(coAuthors) > 0 {
		if _, err := tx.ExecContext(ctx, qInsertSet, bookID, coAuthors, model.RoleCoAuthor); err != nil {
			return fmt.Errorf("insert co-author rows: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, qDelete, bookID, coEditorSpellings); err != nil {
		return fmt.Errorf("delete co-editor rows: %w", err)
	}
	if len(coEditors) > 0 {
		if _, err := tx.ExecContext(ctx, qInsertSet, bookID, coEditors, model.RoleCoEditor); err != nil {
			return fmt.Errorf("insert co-editor rows: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, qDelete, bookID, principalSpellings); err != nil {
		return fmt.Errorf("delete principal rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, qInsertOne, bookID, principalID, model.RolePrincipalAuthor); err != nil {
		return fmt.Errorf("insert principal row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace links: %w", err)
	}
	return nil
}

// ListByBook returns all link rows for a book.
func (r *BookAuthorPostgres) ListByBook(ctx context.Context, bookID string) ([]model.BookAuthorLink, error) {
	const q = `SELECT book_id, author_id, role FROM libro_autor WHERE book_id = $1 ORDER BY role, author_id`
	return r.queryLinks(ctx, q, bookID)
}

// ListByAuthor returns all link rows for an author.
func (r *BookAuthorPostgres) ListByAuthor(ctx context.Context, authorID string) ([]model.BookAuthorLink, error) {
	const q = `SELECT book_id, author_id, role FROM libro_autor WHERE author_id = $1 ORDER BY book_id`
	return r.queryLinks(ctx, q, authorID)
}

func (r *BookAuthorPostgres) queryLinks(ctx context.Context, q string, arg any) ([]model.BookAuthorLink, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]model.BookAuthorLink, 0)
	for rows.Next() {
		var l model.BookAuthorLink
		if err := rows.Scan(&l.BookID, &l.AuthorID, &l.Role); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// excludeID filters target out of ids and drops duplicates, keeping order.
func excludeID(ids []string, target string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{target: true}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
