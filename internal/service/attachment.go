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

	"catalogapi/internal/model"
	"catalogapi/internal/realtime"
	"catalogapi/internal/repository"
	"catalogapi/internal/storage"
)

var (
	ErrSingletonExists  = errors.New("an attachment of that category already exists for this book")
	ErrOriginAmbiguous  = errors.New("provide either a file or an external url, not both")
	ErrOriginMissing    = errors.New("an attachment requires a file or an external url")
	ErrAttachmentNotURL = errors.New("attachment is not a stored file")
)

// AttachmentURLInput creates a link-type attachment.
type AttachmentURLInput struct {
	Type        model.AttachmentType `json:"type" validate:"required"`
	ExternalURL string               `json:"external_url" validate:"required,url"`
	Note        string               `json:"note"`
}

// AttachmentService manages the per-book document file (expediente).
type AttachmentService interface {
	// AddFile stores an uploaded document in the private attachments bucket.
	AddFile(ctx context.Context, bookID string, typ model.AttachmentType, note string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error)

	// AddURL records an external link instead of a stored object.
	AddURL(ctx context.Context, bookID string, in AttachmentURLInput) (*model.Attachment, error)

	ListByBook(ctx context.Context, bookID string) ([]model.Attachment, error)

	// ReplaceFile swaps the stored object of a file attachment: the new object
	// is uploaded and recorded before the old one is removed.
	ReplaceFile(ctx context.Context, id string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error)

	Delete(ctx context.Context, id string) error

	// DownloadURL returns a time-limited presigned URL for a stored file.
	DownloadURL(ctx context.Context, id string) (string, error)
}

type attachmentService struct {
	attachments repository.AttachmentRepository
	books       repository.BookRepository
	store       storage.Storage
	events      realtime.Publisher

	bucket     string
	presignTTL time.Duration
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(attachments repository.AttachmentRepository, books repository.BookRepository, store storage.Storage, events realtime.Publisher, bucket string, presignTTL time.Duration) AttachmentService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &attachmentService{
		attachments: attachments,
		books:       books,
		store:       store,
		events:      events,
		bucket:      bucket,
		presignTTL:  presignTTL,
	}
}

// checkSingleton rejects a second attachment of a singleton category.
func (s *attachmentService) checkSingleton(ctx context.Context, bookID string, typ model.AttachmentType) error {
	if !model.SingletonAttachmentTypes[typ] {
		return nil
	}
	if _, err := s.attachments.FindByBookAndType(ctx, bookID, typ); err == nil {
		return ErrSingletonExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (s *attachmentService) requireBook(ctx context.Context, bookID string) error {
	if bookID == "" {
		return ErrIDRequired
	}
	if _, err := s.books.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *attachmentService) AddFile(ctx context.Context, bookID string, typ model.AttachmentType, note string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}
	if err := s.checkSingleton(ctx, bookID, typ); err != nil {
		return nil, err
	}

	key := bookID + "/" + uuid.New().String() + filepath.Ext(filename)
	info, err := s.store.Put(ctx, s.bucket, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	a := &model.Attachment{
		ID:          uuid.New().String(),
		BookID:      bookID,
		Type:        typ,
		Origin:      model.OriginFile,
		StoragePath: info.Key,
		Note:        note,
		Size:        info.Size,
		ContentType: contentType,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.attachments.Create(ctx, a)
	if err != nil {
		if delErr := s.store.Delete(ctx, s.bucket, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "libro_adjuntos", Action: realtime.ActionInsert, ID: stored.ID})
	return stored, nil
}

func (s *attachmentService) AddURL(ctx context.Context, bookID string, in AttachmentURLInput) (*model.Attachment, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fieldErrors(err)
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return nil, err
	}
	if err := s.checkSingleton(ctx, bookID, in.Type); err != nil {
		return nil, err
	}

	a := &model.Attachment{
		ID:          uuid.New().String(),
		BookID:      bookID,
		Type:        in.Type,
		Origin:      model.OriginURL,
		ExternalURL: in.ExternalURL,
		Note:        in.Note,
		CreatedAt:   time.Now().UTC(),
	}
	stored, err := s.attachments.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create attachment: %w", err)
	}
	s.events.Publish(realtime.Event{Table: "libro_adjuntos", Action: realtime.ActionInsert, ID: stored.ID})
	return stored, nil
}

func (s *attachmentService) ListByBook(ctx context.Context, bookID string) ([]model.Attachment, error) {
	if bookID == "" {
		return nil, ErrIDRequired
	}
	return s.attachments.ListByBook(ctx, bookID)
}

func (s *attachmentService) ReplaceFile(ctx context.Context, id string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.Origin != model.OriginFile {
		return nil, ErrAttachmentNotURL
	}

	key := a.BookID + "/" + uuid.New().String() + filepath.Ext(filename)
	info, err := s.store.Put(ctx, s.bucket, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	oldKey := a.StoragePath
	a.StoragePath = info.Key
	a.Size = info.Size
	a.ContentType = contentType

	stored, err := s.attachments.Update(ctx, a)
	if err != nil {
		if delErr := s.store.Delete(ctx, s.bucket, key); delErr != nil {
			return nil, fmt.Errorf("db update failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db update failed: %w", err)
	}
	if oldKey != "" && oldKey != key {
		// Best effort: the row already points at the new object.
		_ = s.store.Delete(ctx, s.bucket, oldKey)
	}
	s.events.Publish(realtime.Event{Table: "libro_adjuntos", Action: realtime.ActionUpdate, ID: stored.ID})
	return stored, nil
}

func (s *attachmentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if a.Origin == model.OriginFile && a.StoragePath != "" {
		if err := s.store.Delete(ctx, s.bucket, a.StoragePath); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	if err := s.attachments.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Event{Table: "libro_adjuntos", Action: realtime.ActionDelete, ID: id})
	return nil
}

func (s *attachmentService) DownloadURL(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	a, err := s.attachments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if a.Origin == model.OriginURL {
		return a.ExternalURL, nil
	}
	return s.store.PresignGet(ctx, s.bucket, a.StoragePath, s.presignTTL)
}
