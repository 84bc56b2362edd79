package repository

import (
	"context"
	"errors"
	"io"

	"github.com/wordlink/wordlink/internal/document"
)

var (
	ErrNotFound = errors.New("document not found")
)

// Repository stores .docx blobs by file name.
type Repository interface {
	List(ctx context.Context) ([]document.FileInfo, error)
	Save(ctx context.Context, name string, r io.Reader, size int64) (document.FileInfo, error)
	Open(ctx context.Context, name string) (io.ReadCloser, document.FileInfo, error)
	Delete(ctx context.Context, name string) error
	Ping(ctx context.Context) error
}
