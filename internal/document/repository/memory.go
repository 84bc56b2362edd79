package repository

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/wordlink/wordlink/internal/document"
)

type memoryFile struct {
	data    []byte
	modTime time.Time
}

// MemoryRepo is an in-memory repository used for unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*memoryFile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*memoryFile)}
}

func (m *MemoryRepo) List(ctx context.Context) ([]document.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]document.FileInfo, 0, len(m.store))
	for name, f := range m.store {
		out = append(out, document.FileInfo{Name: name, Size: int64(len(f.data)), ModifiedAt: f.modTime})
	}
	return out, nil
}

func (m *MemoryRepo) Save(ctx context.Context, name string, r io.Reader, size int64) (document.FileInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return document.FileInfo{}, err
	}
	f := &memoryFile{data: b, modTime: time.Now()}
	m.mu.Lock()
	m.store[name] = f
	m.mu.Unlock()
	return document.FileInfo{Name: name, Size: int64(len(b)), ModifiedAt: f.modTime}, nil
}

func (m *MemoryRepo) Open(ctx context.Context, name string) (io.ReadCloser, document.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.store[name]
	if !ok {
		return nil, document.FileInfo{}, ErrNotFound
	}
	info := document.FileInfo{Name: name, Size: int64(len(f.data)), ModifiedAt: f.modTime}
	return io.NopCloser(bytes.NewReader(f.data)), info, nil
}

func (m *MemoryRepo) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[name]; !ok {
		return ErrNotFound
	}
	delete(m.store, name)
	return nil
}

func (m *MemoryRepo) Ping(ctx context.Context) error { return nil }
