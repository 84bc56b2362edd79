package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"github.com/wordlink/wordlink/internal/config"
)

func TestNewMinIOStorageRequiresEndpoint(t *testing.T) {
	_, err := NewMinIOStorage(context.Background(), config.MinIOConfig{Bucket: "wordlink"})
	require.Error(t, err)
}

func TestMapErr(t *testing.T) {
	missing := minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist.", Key: "documents/a.docx"}
	err := mapErr(missing)
	require.ErrorIs(t, err, ErrObjectNotFound)
	require.Contains(t, err.Error(), "specified key does not exist")

	denied := minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied."}
	require.False(t, errors.Is(mapErr(denied), ErrObjectNotFound))

	plain := errors.New("connection refused")
	require.Equal(t, plain, mapErr(plain))
}

func TestToInfo(t *testing.T) {
	mod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	info := toInfo(minio.ObjectInfo{Key: "documents/a.docx", Size: 42, LastModified: mod, ContentType: "application/zip"})
	require.Equal(t, ObjectInfo{Key: "documents/a.docx", Size: 42, LastModified: mod, ContentType: "application/zip"}, info)
}
