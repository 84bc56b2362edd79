package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wordlink/wordlink/internal/document"
	"github.com/wordlink/wordlink/internal/document/repository"
	"github.com/wordlink/wordlink/internal/updates"
)

func docxBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types/>`,
		"word/document.xml":   `<w:document/>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type failingRecorder struct{}

func (failingRecorder) Record(ctx context.Context, u *updates.Update) (*updates.Update, error) {
	return nil, errors.New("log unavailable")
}

func newTestService(max int64) (*Service, *repository.MemoryRepo, *updates.Service) {
	repo := repository.NewMemoryRepo()
	upd := updates.NewService(updates.NewMemoryRepository(0))
	return New(repo, upd, "http://localhost:3001/", max), repo, upd
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"a.docx", "Report.DOCX", "my file.docx", "résumé.docx"} {
		require.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", ".docx", "a.txt", "../a.docx", `dir\a.docx`, "dir/a.docx", "..", "a..docx", `a".docx`, "a\n.docx", "a\x00.docx"} {
		require.ErrorIs(t, ValidateName(bad), ErrInvalidName, bad)
	}
}

func TestUpload_StoresAndRecords(t *testing.T) {
	svc, _, upd := newTestService(1 << 20)
	ctx := context.Background()
	body := docxBytes(t)

	doc, rec, err := svc.Upload(ctx, "ignored.docx", bytes.NewReader(body), int64(len(body)),
		document.UploadMetadata{DocumentName: "report.docx", Timestamp: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)
	require.Equal(t, "report.docx", doc.Name)
	require.Equal(t, "report.docx", doc.ID)
	require.Equal(t, "http://localhost:3001/documents/report.docx", doc.URL)
	require.EqualValues(t, len(body), doc.Size)

	require.NotNil(t, rec)
	require.Equal(t, UploadEventType, rec.EventType)
	require.Equal(t, "2024-01-01T00:00:00Z", rec.Timestamp)
	require.EqualValues(t, len(body), *rec.ContentLength)

	all, err := upd.List(ctx, updates.Filter{DocumentName: "report.docx"})
	require.NoError(t, err)
	require.Len(t, all, 1)

	rc, info, err := svc.Open(ctx, "report.docx")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, body, got)
	require.Equal(t, "report.docx", info.Name)
}

func TestUpload_FallsBackToFileName(t *testing.T) {
	svc, _, _ := newTestService(0)
	body := docxBytes(t)
	doc, rec, err := svc.Upload(context.Background(), "draft.docx", bytes.NewReader(body), int64(len(body)),
		document.UploadMetadata{EventType: "save"})
	require.NoError(t, err)
	require.Equal(t, "draft.docx", doc.Name)
	require.Equal(t, "save", rec.EventType)
}

func TestUpload_Rejections(t *testing.T) {
	svc, repo, _ := newTestService(1 << 20)
	ctx := context.Background()
	body := docxBytes(t)

	_, _, err := svc.Upload(ctx, "notes.txt", bytes.NewReader(body), int64(len(body)), document.UploadMetadata{})
	require.ErrorIs(t, err, ErrInvalidName)

	text := []byte("just some plain text, not a word document")
	_, _, err = svc.Upload(ctx, "fake.docx", bytes.NewReader(text), int64(len(text)), document.UploadMetadata{})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, _, err = svc.Upload(ctx, "big.docx", bytes.NewReader(body), 2<<20, document.UploadMetadata{})
	require.ErrorIs(t, err, ErrTooLarge)

	files, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestUpload_RecorderFailureKeepsFile(t *testing.T) {
	repo := repository.NewMemoryRepo()
	svc := New(repo, failingRecorder{}, "http://x", 0)
	body := docxBytes(t)
	doc, rec, err := svc.Upload(context.Background(), "a.docx", bytes.NewReader(body), int64(len(body)), document.UploadMetadata{})
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Nil(t, rec)
}

func TestList_FiltersAndSorts(t *testing.T) {
	svc, repo, _ := newTestService(0)
	ctx := context.Background()
	for _, n := range []string{"b.docx", "notes.txt", "A b.docx"} {
		_, err := repo.Save(ctx, n, strings.NewReader("x"), 1)
		require.NoError(t, err)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "A b.docx", list[0].Name)
	require.Equal(t, "http://localhost:3001/documents/A%20b.docx", list[0].URL)
	require.Equal(t, "b.docx", list[1].Name)
}

func TestOpenDelete_NotFound(t *testing.T) {
	svc, _, _ := newTestService(0)
	ctx := context.Background()
	_, _, err := svc.Open(ctx, "missing.docx")
	require.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.Open(ctx, "../etc/passwd")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, svc.Delete(ctx, "missing.docx"), ErrNotFound)
}
