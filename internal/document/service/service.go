package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/wordlink/wordlink/internal/document"
	"github.com/wordlink/wordlink/internal/document/repository"
	"github.com/wordlink/wordlink/internal/updates"
	"github.com/wordlink/wordlink/pkg/logger"
	"github.com/wordlink/wordlink/pkg/metrics"
)

// UploadEventType is recorded when an upload carries no event type of its own.
const UploadEventType = "upload"

var (
	ErrNotFound        = repository.ErrNotFound
	ErrInvalidName     = errors.New("invalid document name")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrTooLarge        = errors.New("document too large")
)

// sniffLen matches mimetype's default read limit.
const sniffLen = 3072

// Recorder appends document-update records. *updates.Service satisfies it.
type Recorder interface {
	Record(ctx context.Context, u *updates.Update) (*updates.Update, error)
}

// Service implements listing, download, upload and delete of stored .docx files.
type Service struct {
	repo      repository.Repository
	recorder  Recorder
	publicURL string
	maxBytes  int64
}

// New returns a Service. publicURL is the externally reachable base of this
// server; download URLs are built from it. maxBytes <= 0 disables the size check.
func New(repo repository.Repository, rec Recorder, publicURL string, maxBytes int64) *Service {
	return &Service{
		repo:      repo,
		recorder:  rec,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}
}

// MaxBytes is the configured upload limit.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// URL is the download location of a stored document.
func (s *Service) URL(name string) string {
	return s.publicURL + "/documents/" + url.PathEscape(name)
}

// List returns every stored .docx, sorted by name.
func (s *Service) List(ctx context.Context) ([]document.Document, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]document.Document, 0, len(files))
	for _, f := range files {
		if !document.IsDocx(f.Name) {
			continue
		}
		out = append(out, s.toDocument(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Service) toDocument(f document.FileInfo) document.Document {
	return document.Document{
		ID:         f.Name,
		Name:       f.Name,
		URL:        s.URL(f.Name),
		Size:       f.Size,
		ModifiedAt: f.ModifiedAt,
	}
}

// ValidateName accepts a bare file name with the .docx extension.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\"`) || strings.Contains(name, "..") {
		return ErrInvalidName
	}
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return ErrInvalidName
	}
	if !document.IsDocx(name) || len(name) == len(document.Extension) {
		return ErrInvalidName
	}
	return nil
}

// Open returns a reader over the named document. The caller closes it.
func (s *Service) Open(ctx context.Context, name string) (io.ReadCloser, document.FileInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, document.FileInfo{}, ErrNotFound
	}
	return s.repo.Open(ctx, name)
}

// Delete removes the named document.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, name)
}

// Upload stores r as a document and records an update for it. The stored name
// is meta.DocumentName when set, otherwise fileName. size must be the exact
// length of r.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader, size int64, meta document.UploadMetadata) (*document.Document, *updates.Update, error) {
	name := strings.TrimSpace(meta.DocumentName)
	if name == "" {
		name = strings.TrimSpace(fileName)
	}
	if err := ValidateName(name); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", err, name)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, s.maxBytes)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if mt := mimetype.Detect(head); !isDocx(mt) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	info, err := s.repo.Save(ctx, name, io.MultiReader(bytes.NewReader(head), r), size)
	if err != nil {
		return nil, nil, fmt.Errorf("save document: %w", err)
	}

	event := strings.TrimSpace(meta.EventType)
	if event == "" {
		event = UploadEventType
	}
	metrics.DocumentsUploaded.WithLabelValues(event).Inc()
	logger.Infof("document saved: %s (%d bytes, event=%s)", info.Name, info.Size, event)

	doc := s.toDocument(info)
	if s.recorder == nil {
		return &doc, nil, nil
	}
	upd, err := s.recorder.Record(ctx, &updates.Update{
		Timestamp:     meta.Timestamp,
		DocumentName:  info.Name,
		ContentLength: updates.Int64(info.Size),
		EventType:     event,
	})
	if err != nil {
		// the file is already stored; report it without the record
		logger.Warnf("record update for %s: %v", info.Name, err)
		return &doc, nil, nil
	}
	return &doc, upd, nil
}

// isDocx accepts a DOCX or any ZIP container, since short or unusual
// archives may not be recognised as DOCX from the first bytes alone.
func isDocx(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(document.DocxContentType) || m.Is("application/zip") {
			return true
		}
	}
	return false
}
