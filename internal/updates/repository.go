package updates

import (
	"context"
	"sync"
)

// Repository persists update records in arrival order.
type Repository interface {
	Append(ctx context.Context, u *Update) error
	List(ctx context.Context, f Filter) ([]*Update, error)
	Ping(ctx context.Context) error
}

// MemoryRepository keeps the log in process memory, bounded to max entries
// (oldest dropped first). A max of zero or less means unbounded.
type MemoryRepository struct {
	mu  sync.RWMutex
	log []*Update
	max int
}

func NewMemoryRepository(max int) *MemoryRepository {
	return &MemoryRepository{max: max}
}

func (m *MemoryRepository) Append(ctx context.Context, u *Update) error {
	cp := *u
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, &cp)
	if m.max > 0 && len(m.log) > m.max {
		m.log = append([]*Update(nil), m.log[len(m.log)-m.max:]...)
	}
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, f Filter) ([]*Update, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := applyFilter(m.log, f)
	for i, u := range out {
		cp := *u
		out[i] = &cp
	}
	return out, nil
}

func (m *MemoryRepository) Ping(ctx context.Context) error { return nil }

// applyFilter returns a new slice; the input is not modified.
func applyFilter(in []*Update, f Filter) []*Update {
	out := make([]*Update, 0, len(in))
	for _, u := range in {
		if f.DocumentName != "" && u.DocumentName != f.DocumentName {
			continue
		}
		out = append(out, u)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
