package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"catalogapi/internal/model"
	"catalogapi/internal/realtime"
	repoMocks "catalogapi/internal/repository/mocks"
	"catalogapi/internal/storage"
	storeMocks "catalogapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validBookInput() BookInput {
	return BookInput{
		RegistrationCode: "REG-001",
		ISBN:             "9780306406157",
		Title:            "Compilers",
		Subject:          "Computer Science",
		Topic:            "Compilers",
		Edition:          1,
		PublicationYear:  2006,
		PageCount:        500,
		Authorship:       model.AuthorshipCoAuthored,
		Format:           model.FormatPrint,
	}
}

func newBookService(books *repoMocks.MockBookRepository, links *repoMocks.MockBookAuthorRepository, store *storeMocks.MockStorage) BookService {
	return NewBookService(books, links, store, realtime.NopPublisher{}, "portadas", "libros")
}

func TestBookService_Create_RejectsInvalidISBN(t *testing.T) {
	ctx := context.Background()
	books := new(repoMocks.MockBookRepository)
	links := new(repoMocks.MockBookAuthorRepository)
	store := new(storeMocks.MockStorage)

	in := validBookInput()
	in.ISBN = "9780306406158" // last digit off by one

	_, err := newBookService(books, links, store).Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidISBN)
	books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookService_Create_RejectsDuplicateISBNBeforeInsert(t *testing.T) {
	ctx := context.Background()
	books := new(repoMocks.MockBookRepository)
	links := new(repoMocks.MockBookAuthorRepository)
	store := new(storeMocks.MockStorage)

	books.On("FindByISBN", ctx, "9780306406157").
		Return(&model.Book{ID: "existing"}, nil)

	_, err := newBookService(books, links, store).Create(ctx, validBookInput())
	assert.ErrorIs(t, err, ErrDuplicateISBN)
	books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookService_Create_HappyPath(t *testing.T) {
	ctx := context.Background()
	books := new(repoMocks.MockBookRepository)
	links := new(repoMocks.MockBookAuthorRepository)
	store := new(storeMocks.MockStorage)

	books.On("FindByISBN", ctx, "9780306406157").Return(nil, sql.ErrNoRows)
	books.On("Create", ctx, mock.MatchedBy(func(b *model.Book) bool {
		return b.ID != "" && b.ISBN == "9780306406157"
	})).Return(&model.Book{ID: "gen-id", ISBN: "9780306406157"}, nil)

	got, err := newBookService(books, links, store).Create(ctx, validBookInput())
	require.NoError(t, err)
	assert.Equal(t, "gen-id", got.ID)
	books.AssertExpectations(t)
}

func TestBookService_Update_KeepingOwnISBN(t *testing.T) {
	ctx := context.Background()
	books := new(repoMocks.MockBookRepository)
	links := new(repoMocks.MockBookAuthorRepository)
	store := new(storeMocks.MockStorage)

	current := &model.Book{ID: "b1", ISBN: "9780306406157"}
	books.On("FindByID", ctx, "b1").Return(current, nil)
	// The duplicate hit is the book itself, so the update proceeds.
	books.On("FindByISBN", ctx, "9780306406157").Return(current, nil)
	books.On("Update", ctx, mock.Anything).Return(current, nil)

	_, err := newBookService(books, links, store).Update(ctx, "b1", validBookInput())
	require.NoError(t, err)
	books.AssertExpectations(t)
}

func TestBookService_SetAuthors(t *testing.T) {
	ctx := context.Background()
	bookID := "3c72f7ca-8d61-4f8c-9c91-1c5d3e4f5a6b"
	principal := "4d83a8db-9e72-4a9d-8da2-2d6e4f5a6b7c"
	co := "5e94b9ec-af83-4bae-9eb3-3e7f5a6b7c8d"

	t.Run("happy path", func(t *testing.T) {
		books := new(repoMocks.MockBookRepository)
		links := new(repoMocks.MockBookAuthorRepository)
		store := new(storeMocks.MockStorage)

		books.On("FindByID", ctx, bookID).Return(&model.Book{ID: bookID}, nil)
		links.On("ReplaceLinks", ctx, bookID, principal, []string{co}, []string(nil)).Return(nil)
		links.On("ListByBook", ctx, bookID).Return([]model.BookAuthorLink{
			{BookID: bookID, AuthorID: principal, Role: model.RolePrincipalAuthor},
			{BookID: bookID, AuthorID: co, Role: model.RoleCoAuthor},
		}, nil)

		got, err := newBookService(books, links, store).SetAuthors(ctx, bookID, BookAuthorsInput{
			PrincipalID: principal,
			CoAuthorIDs: []string{co},
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		links.AssertExpectations(t)
	})

	t.Run("missing principal", func(t *testing.T) {
		books := new(repoMocks.MockBookRepository)
		links := new(repoMocks.MockBookAuthorRepository)
		store := new(storeMocks.MockStorage)

		_, err := newBookService(books, links, store).SetAuthors(ctx, bookID, BookAuthorsInput{})
		assert.ErrorIs(t, err, ErrPrincipalMissing)
		links.AssertNotCalled(t, "ReplaceLinks", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown book", func(t *testing.T) {
		books := new(repoMocks.MockBookRepository)
		links := new(repoMocks.MockBookAuthorRepository)
		store := new(storeMocks.MockStorage)
		books.On("FindByID", ctx, bookID).Return(nil, sql.ErrNoRows)

		_, err := newBookService(books, links, store).SetAuthors(ctx, bookID, BookAuthorsInput{PrincipalID: principal})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookService_UploadCover(t *testing.T) {
	ctx := context.Background()

	t.Run("records new key then deletes old object", func(t *testing.T) {
		books := new(repoMocks.MockBookRepository)
		links := new(repoMocks.MockBookAuthorRepository)
		store := new(storeMocks.MockStorage)

		books.On("FindByID", ctx, "b1").
			Return(&model.Book{ID: "b1", CoverPath: "b1/old.jpg", PDFPath: "b1/book.pdf"}, nil)
		r := strings.NewReader("img")
		store.On("Put", ctx, "portadas", mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "b1/") && strings.HasSuffix(key, ".jpg")
		}), r, mock.Anything).Return(storage.ObjectInfo{Key: "b1/new.jpg", Size: 3}, nil)
		books.On("SetFilePaths", ctx, "b1", mock.MatchedBy(func(key string) bool {
			return key != "b1/old.jpg"
		}), "b1/book.pdf").Return(nil)
		store.On("Delete", ctx, "portadas", "b1/old.jpg").Return(nil)

		got, err := newBookService(books, links, store).UploadCover(ctx, "b1", r, "cover.jpg", "image/jpeg", 3)
		require.NoError(t, err)
		assert.NotEqual(t, "b1/old.jpg", got.CoverPath)
		store.AssertExpectations(t)
	})

	t.Run("rolls back object when record fails", func(t *testing.T) {
		books := new(repoMocks.MockBookRepository)
		links := new(repoMocks.MockBookAuthorRepository)
		store := new(storeMocks.MockStorage)

		books.On("FindByID", ctx, "b1").Return(&model.Book{ID: "b1"}, nil)
		r := strings.NewReader("img")
		store.On("Put", ctx, "portadas", mock.Anything, r, mock.Anything).
			Return(func(ctx context.Context, bucket, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		books.On("SetFilePaths", ctx, "b1", mock.Anything, mock.Anything).
			Return(errors.New("db fail"))
		store.On("Delete", ctx, "portadas", mock.Anything).Return(nil)

		_, err := newBookService(books, links, store).UploadCover(ctx, "b1", r, "cover.jpg", "image/jpeg", 3)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record file failed")
		store.AssertCalled(t, "Delete", ctx, "portadas", mock.Anything)
	})

	t.Run("nil reader", func(t *testing.T) {
		books := new(repoMocks.MockBookRepository)
		links := new(repoMocks.MockBookAuthorRepository)
		store := new(storeMocks.MockStorage)

		_, err := newBookService(books, links, store).UploadCover(ctx, "b1", nil, "cover.jpg", "image/jpeg", 3)
		assert.ErrorIs(t, err, ErrReaderNil)
	})
}

func TestBookService_Delete_RemovesStoredObjectsFirst(t *testing.T) {
	ctx := context.Background()
	books := new(repoMocks.MockBookRepository)
	links := new(repoMocks.MockBookAuthorRepository)
	store := new(storeMocks.MockStorage)

	books.On("FindByID", ctx, "b1").
		Return(&model.Book{ID: "b1", CoverPath: "b1/c.jpg", PDFPath: "b1/f.pdf"}, nil)
	store.On("Delete", ctx, "portadas", "b1/c.jpg").Return(nil)
	store.On("Delete", ctx, "libros", "b1/f.pdf").Return(nil)
	books.On("Delete", ctx, "b1").Return(nil)

	err := newBookService(books, links, store).Delete(ctx, "b1")
	require.NoError(t, err)
	store.AssertExpectations(t)
	books.AssertExpectations(t)
}
