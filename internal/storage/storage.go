package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains object storage abstractions for S3-compatible
// backends. Implementations rely on streaming I/O only; no local disk.
// The catalog uses several buckets (covers, book PDFs, attachments, photos),
// so every method takes the bucket explicitly.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable S3-compatible object storage client interface.
type Storage interface {
	// Put uploads an object under the given bucket/key using the provided reader.
	Put(ctx context.Context, bucket, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by bucket and key.
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials. Used for the private buckets.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
