package mocks

import (
	"context"
	"io"

	"catalogapi/internal/model"
	"catalogapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) AddFile(ctx context.Context, bookID string, typ model.AttachmentType, note string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error) {
	args := m.Called(ctx, bookID, typ, note, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) AddURL(ctx context.Context, bookID string, in service.AttachmentURLInput) (*model.Attachment, error) {
	args := m.Called(ctx, bookID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) ListByBook(ctx context.Context, bookID string) ([]model.Attachment, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) ReplaceFile(ctx context.Context, id string, r io.Reader, filename, contentType string, size int64) (*model.Attachment, error) {
	args := m.Called(ctx, id, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttachmentService) DownloadURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
