package repository

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/wordlink/wordlink/internal/document"
	"github.com/wordlink/wordlink/internal/storage"
)

// ObjectStore is the part of storage.MinIOStorage the repository uses.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error)
	ListFiles(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	DeleteFile(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// ObjectRepo stores documents as objects under a key prefix.
type ObjectRepo struct {
	store  ObjectStore
	prefix string
}

func NewObjectRepo(store ObjectStore, prefix string) *ObjectRepo {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ObjectRepo{store: store, prefix: prefix}
}

func (o *ObjectRepo) key(name string) string {
	return o.prefix + path.Base(name)
}

func (o *ObjectRepo) List(ctx context.Context) ([]document.FileInfo, error) {
	objs, err := o.store.ListFiles(ctx, o.prefix)
	if err != nil {
		return nil, err
	}
	out := make([]document.FileInfo, 0, len(objs))
	for _, obj := range objs {
		name := strings.TrimPrefix(obj.Key, o.prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		out = append(out, document.FileInfo{Name: name, Size: obj.Size, ModifiedAt: obj.LastModified})
	}
	return out, nil
}

// Save needs the exact size: the MinIO client streams with a known length.
func (o *ObjectRepo) Save(ctx context.Context, name string, r io.Reader, size int64) (document.FileInfo, error) {
	if err := o.store.UploadFile(ctx, o.key(name), r, size, document.DocxContentType); err != nil {
		return document.FileInfo{}, err
	}
	rc, info, err := o.stat(ctx, name)
	if err != nil {
		return document.FileInfo{}, err
	}
	rc.Close()
	return info, nil
}

func (o *ObjectRepo) stat(ctx context.Context, name string) (io.ReadCloser, document.FileInfo, error) {
	rc, obj, err := o.store.DownloadFile(ctx, o.key(name))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, document.FileInfo{}, ErrNotFound
		}
		return nil, document.FileInfo{}, err
	}
	return rc, document.FileInfo{Name: path.Base(name), Size: obj.Size, ModifiedAt: obj.LastModified}, nil
}

func (o *ObjectRepo) Open(ctx context.Context, name string) (io.ReadCloser, document.FileInfo, error) {
	return o.stat(ctx, name)
}

func (o *ObjectRepo) Delete(ctx context.Context, name string) error {
	if err := o.store.DeleteFile(ctx, o.key(name)); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (o *ObjectRepo) Ping(ctx context.Context) error {
	return o.store.Ping(ctx)
}
