package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/isbn"
	"catalogapi/internal/model"
	"catalogapi/internal/realtime"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
)

var (
	ErrInvalidISBN      = errors.New("isbn failed checksum validation")
	ErrDuplicateISBN    = errors.New("a book with that isbn already exists")
	ErrPrincipalMissing = errors.New("a principal author is required")
)

// BookInput is the book create/update payload.
type BookInput struct {
	RegistrationCode string               `json:"registration_code" validate:"required"`
	ISBN             string               `json:"isbn" validate:"required"`
	DOI              string               `json:"doi"`
	Title            string               `json:"title" validate:"required"`
	Subtitle         string               `json:"subtitle"`
	Subject          string               `json:"subject" validate:"required"`
	Topic            string               `json:"topic" validate:"required"`
	Collection       string               `json:"collection"`
	Edition          int                  `json:"edition" validate:"required,min=1"`
	PublicationYear  int                  `json:"publication_year" validate:"required,min=1450"`
	PageCount        int                  `json:"page_count" validate:"min=0"`
	Authorship       model.AuthorshipType `json:"authorship" validate:"required,oneof=individual co-authored collective"`
	Format           model.BookFormat     `json:"format" validate:"required,oneof=print print-on-demand electronic-open electronic-commercial other"`
	Synopsis         string               `json:"synopsis"`
}

// BookAuthorsInput assigns a book's authorship set.
type BookAuthorsInput struct {
	PrincipalID string   `json:"principal_id" validate:"required,uuid4"`
	CoAuthorIDs []string `json:"co_author_ids" validate:"dive,uuid4"`
	CoEditorIDs []string `json:"co_editor_ids" validate:"dive,uuid4"`
}

// BookFileUploadFunc matches the signature shared by UploadCover and
// UploadPDF so transports can treat the two uniformly.
type BookFileUploadFunc func(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error)

// BookListResult is the service-level DTO for paginated books.
type BookListResult struct {
	Items []model.Book `json:"data"`
	Total int          `json:"total"`
}

// BookService covers the catalog book lifecycle including cover/PDF files
// and authorship assignment.
type BookService interface {
	Create(ctx context.Context, in BookInput) (*model.Book, error)
	Get(ctx context.Context, id string) (*model.Book, error)
	List(ctx context.Context, limit, offset int) (*BookListResult, error)
	Update(ctx context.Context, id string, in BookInput) (*model.Book, error)
	Delete(ctx context.Context, id string) error

	// SetAuthors replaces the book's authorship rows. The principal is never
	// duplicated as co-author or co-editor.
	SetAuthors(ctx context.Context, bookID string, in BookAuthorsInput) ([]model.BookAuthorLink, error)
	Authors(ctx context.Context, bookID string) ([]model.BookAuthorLink, error)

	// UploadCover and UploadPDF stream the file to the public buckets and
	// record the object key on the book row.
	UploadCover(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error)
	UploadPDF(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error)
}

type bookService struct {
	books  repository.BookRepository
	links  repository.BookAuthorRepository
	store  storage.Storage
	events realtime.Publisher

	coverBucket string
	pdfBucket   string
}

// NewBookService constructs a BookService.
func NewBookService(books repository.BookRepository, links repository.BookAuthorRepository, store storage.Storage, events realtime.Publisher, coverBucket, pdfBucket string) BookService {
	return &bookService{
		books:       books,
		links:       links,
		store:       store,
		events:      events,
		coverBucket: coverBucket,
		pdfBucket:   pdfBucket,
	}
}

// checkISBN validates the checksum and rejects ISBNs already in the catalog.
// The duplicate lookup runs before any insert so a rejected submit never
// creates a partial book row; the DB unique constraint backstops races.
func (s *bookService) checkISBN(ctx context.Context, code, excludeID string) error {
	if !isbn.IsValid(code) {
		return ErrInvalidISBN
	}
	existing, err := s.books.FindByISBN(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return ErrDuplicateISBN
	}
	return nil
}

func (s *bookService) Create(ctx context.Context, in BookInput) (*model.Book, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if err := s.checkISBN(ctx, in.ISBN, ""); err != nil {
		return nil, err
	}

	b := &model.Book{
		ID:               uuid.New().String(),
		RegistrationCode: in.RegistrationCode,
		ISBN:             in.ISBN,
		DOI:              in.DOI,
		Title:            in.Title,
		Subtitle:         in.Subtitle,
		Subject:          in.Subject,
		Topic:            in.Topic,
		Collection:       in.Collection,
		Edition:          in.Edition,
		PublicationYear:  in.PublicationYear,
		PageCount:        in.PageCount,
		Authorship:       in.Authorship,
		Format:           in.Format,
		Synopsis:         in.Synopsis,
		CreatedAt:        time.Now().UTC(),
	}
	stored, err := s.books.Create(ctx, b)
	if err != nil {
		// Backstop for a concurrent writer that slipped past the pre-check.
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateISBN
		}
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "libros", Action: realtime.ActionInsert, ID: stored.ID})
	return stored, nil
}

func (s *bookService) Get(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *bookService) List(ctx context.Context, limit, offset int) (*BookListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.books.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &BookListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *bookService) Update(ctx context.Context, id string, in BookInput) (*model.Book, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	current, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if err := s.checkISBN(ctx, in.ISBN, id); err != nil {
		return nil, err
	}

	current.RegistrationCode = in.RegistrationCode
	current.ISBN = in.ISBN
	current.DOI = in.DOI
	current.Title = in.Title
	current.Subtitle = in.Subtitle
	current.Subject = in.Subject
	current.Topic = in.Topic
	current.Collection = in.Collection
	current.Edition = in.Edition
	current.PublicationYear = in.PublicationYear
	current.PageCount = in.PageCount
	current.Authorship = in.Authorship
	current.Format = in.Format
	current.Synopsis = in.Synopsis

	stored, err := s.books.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "libros", Action: realtime.ActionUpdate, ID: stored.ID})
	return stored, nil
}

func (s *bookService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	b, err := s.books.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	// Remove stored objects first; DB rows (and cascades) go second so a
	// storage failure leaves the record intact and retryable.
	if b.CoverPath != "" {
		if err := s.store.Delete(ctx, s.coverBucket, b.CoverPath); err != nil {
			return fmt.Errorf("delete cover: %w", err)
		}
	}
	if b.PDFPath != "" {
		if err := s.store.Delete(ctx, s.pdfBucket, b.PDFPath); err != nil {
			return fmt.Errorf("delete pdf: %w", err)
		}
	}
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Event{Table: "libros", Action: realtime.ActionDelete, ID: id})
	return nil
}

func (s *bookService) SetAuthors(ctx context.Context, bookID string, in BookAuthorsInput) ([]model.BookAuthorLink, error) {
	if bookID == "" {
		return nil, ErrIDRequired
	}
	if in.PrincipalID == "" {
		return nil, ErrPrincipalMissing
	}
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.links.ReplaceLinks(ctx, bookID, in.PrincipalID, in.CoAuthorIDs, in.CoEditorIDs); err != nil {
		return nil, fmt.Errorf("replace authorship: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "libro_autor", Action: realtime.ActionUpdate, ID: bookID})
	return s.links.ListByBook(ctx, bookID)
}

func (s *bookService) Authors(ctx context.Context, bookID string) ([]model.BookAuthorLink, error) {
	if bookID == "" {
		return nil, ErrIDRequired
	}
	return s.links.ListByBook(ctx, bookID)
}

func (s *bookService) UploadCover(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error) {
	return s.uploadFile(ctx, bookID, r, filename, contentType, size, true)
}

func (s *bookService) UploadPDF(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64) (*model.Book, error) {
	return s.uploadFile(ctx, bookID, r, filename, contentType, size, false)
}

// uploadFile streams the object, records its key, and deletes the previous
// object only after the row update succeeds.
func (s *bookService) uploadFile(ctx context.Context, bookID string, r io.Reader, filename, contentType string, size int64, cover bool) (*model.Book, error) {
	if bookID == "" {
		return nil, ErrIDRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	bucket := s.pdfBucket
	oldKey := b.PDFPath
	if cover {
		bucket = s.coverBucket
		oldKey = b.CoverPath
	}

	key := bookID + "/" + uuid.New().String() + filepath.Ext(filename)
	if _, err := s.store.Put(ctx, bucket, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	coverPath, pdfPath := b.CoverPath, b.PDFPath
	if cover {
		coverPath = key
	} else {
		pdfPath = key
	}
	if err := s.books.SetFilePaths(ctx, bookID, coverPath, pdfPath); err != nil {
		// Roll back the fresh object; the row still points at the old one.
		if delErr := s.store.Delete(ctx, bucket, key); delErr != nil {
			return nil, fmt.Errorf("record file failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("record file failed: %w", err)
	}
	if oldKey != "" && oldKey != key {
		// Best effort: the new object is already live.
		_ = s.store.Delete(ctx, bucket, oldKey)
	}

	b.CoverPath = coverPath
	b.PDFPath = pdfPath
	s.events.Publish(realtime.Event{Table: "libros", Action: realtime.ActionUpdate, ID: bookID})
	return b, nil
}
