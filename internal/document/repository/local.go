package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/wordlink/wordlink/internal/document"
)

// LocalRepo keeps documents as plain files in one directory, the layout
// the Word launcher and the static /documents route expect.
type LocalRepo struct {
	dir string
}

// NewLocalRepo creates dir when missing.
func NewLocalRepo(dir string) (*LocalRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents dir: %w", err)
	}
	return &LocalRepo{dir: dir}, nil
}

// Dir returns the directory backing the repository.
func (l *LocalRepo) Dir() string { return l.dir }

func (l *LocalRepo) path(name string) string {
	return filepath.Join(l.dir, filepath.Base(name))
}

func (l *LocalRepo) List(ctx context.Context) ([]document.FileInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}
	out := make([]document.FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		out = append(out, document.FileInfo{Name: e.Name(), Size: info.Size(), ModifiedAt: info.ModTime()})
	}
	return out, nil
}

// Save writes to a temp file and renames it over the target so readers
// never see a half-written document.
func (l *LocalRepo) Save(ctx context.Context, name string, r io.Reader, size int64) (document.FileInfo, error) {
	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return document.FileInfo{}, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return document.FileInfo{}, fmt.Errorf("write %s: %w", name, err)
	}
	dst := l.path(name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return document.FileInfo{}, fmt.Errorf("store %s: %w", name, err)
	}
	st, err := os.Stat(dst)
	if err != nil {
		return document.FileInfo{}, err
	}
	return document.FileInfo{Name: filepath.Base(name), Size: n, ModifiedAt: st.ModTime()}, nil
}

func (l *LocalRepo) Open(ctx context.Context, name string) (io.ReadCloser, document.FileInfo, error) {
	f, err := os.Open(l.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, document.FileInfo{}, ErrNotFound
		}
		return nil, document.FileInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, document.FileInfo{}, err
	}
	if st.IsDir() {
		f.Close()
		return nil, document.FileInfo{}, ErrNotFound
	}
	return f, document.FileInfo{Name: st.Name(), Size: st.Size(), ModifiedAt: st.ModTime()}, nil
}

func (l *LocalRepo) Delete(ctx context.Context, name string) error {
	if err := os.Remove(l.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (l *LocalRepo) Ping(ctx context.Context) error {
	_, err := os.Stat(l.dir)
	return err
}
