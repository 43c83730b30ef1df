package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"catalogapi/internal/model"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// passthrough lets slice arguments through to sqlmock untouched, the way the
// pgx stdlib driver accepts them.
type passthrough struct{}

func (passthrough) ConvertValue(v any) (driver.Value, error) { return driver.Value(v), nil }

func TestBookAuthorPostgres_ReplaceLinks(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthrough{}))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookAuthorPostgres(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", coAuthorSpellings).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO libro_autor").
		WithArgs("b1", []string{"a2", "a3"}, model.RoleCoAuthor).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", coEditorSpellings).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO libro_autor").
		WithArgs("b1", []string{"a4"}, model.RoleCoEditor).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", principalSpellings).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO libro_autor").
		WithArgs("b1", "a1", model.RolePrincipalAuthor).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.ReplaceLinks(ctx, "b1", "a1", []string{"a2", "a3"}, []string{"a4"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookAuthorPostgres_ReplaceLinks_ExcludesPrincipal(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthrough{}))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookAuthorPostgres(db)

	// a1 appears in both co sets; only a2 survives as co-author and the
	// co-editor insert is skipped entirely.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", coAuthorSpellings).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO libro_autor").
		WithArgs("b1", []string{"a2"}, model.RoleCoAuthor).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", coEditorSpellings).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", principalSpellings).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO libro_autor").
		WithArgs("b1", "a1", model.RolePrincipalAuthor).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.ReplaceLinks(context.Background(), "b1", "a1", []string{"a1", "a2", "a2"}, []string{"a1"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookAuthorPostgres_ReplaceLinks_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(passthrough{}))
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookAuthorPostgres(db)

	boom := errors.New("connection reset")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM libro_autor").
		WithArgs("b1", coAuthorSpellings).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO libro_autor").
		WithArgs("b1", []string{"a2"}, model.RoleCoAuthor).
		WillReturnError(boom)
	mock.ExpectRollback()

	err = repo.ReplaceLinks(context.Background(), "b1", "a1", []string{"a2"}, nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookAuthorPostgres_ListByBook(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewBookAuthorPostgres(db)

	mock.ExpectQuery("SELECT book_id, author_id, role FROM libro_autor WHERE book_id = ?").
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"book_id", "author_id", "role"}).
			AddRow("b1", "a2", model.RoleCoAuthor).
			AddRow("b1", "a1", model.RolePrincipalAuthor))

	links, err := repo.ListByBook(context.Background(), "b1")

	assert.NoError(t, err)
	assert.Len(t, links, 2)
	assert.Equal(t, model.RolePrincipalAuthor, links[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
