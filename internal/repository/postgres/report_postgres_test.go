package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestReportPostgres_CatalogRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewReportPostgres(db)

	cols := []string{"title", "isbn", "publication_year", "principal", "co_authors"}
	mock.ExpectQuery("SELECT b.title, b.isbn, b.publication_year").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("Compilers", "9780306406157", 2006, "Ana Ruiz", "Luis Vega; Mar Soto").
			AddRow("Databases", "9780471958697", 1995, "", ""))

	rows, err := repo.CatalogRows(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"Luis Vega", "Mar Soto"}, rows[0].CoAuthors)
	assert.Empty(t, rows[1].CoAuthors)
	assert.Equal(t, "", rows[1].Principal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportPostgres_RequestRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewReportPostgres(db)

	cols := []string{"id", "reader_id", "book_id", "reason", "status", "created_at", "updated_at", "reader_name", "book_title"}
	mock.ExpectQuery("SELECT s.id, s.reader_id, s.book_id").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("r1", "l1", "b1", "thesis", "pending", time.Now(), time.Now(), "Luz Mora", "Compilers"))

	rows, err := repo.RequestRows(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Luz Mora", rows[0].ReaderName)
	assert.Equal(t, "Compilers", rows[0].BookTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
