package updates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wordlink/wordlink/pkg/metrics"
)

// Service stamps and stores update records.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(r Repository) *Service {
	return &Service{repo: r, now: time.Now}
}

// Record assigns an ID and receive time, fills defaults and appends u.
func (s *Service) Record(ctx context.Context, u *Update) (*Update, error) {
	u.ID = uuid.NewString()
	u.ReceivedAt = s.now().UTC()
	u.DocumentName = strings.TrimSpace(u.DocumentName)
	if strings.TrimSpace(u.Timestamp) == "" {
		u.Timestamp = u.ReceivedAt.Format(time.RFC3339)
	}
	if strings.TrimSpace(u.EventType) == "" {
		u.EventType = DefaultEventType
	}
	if err := s.repo.Append(ctx, u); err != nil {
		return nil, err
	}
	metrics.DocumentUpdates.WithLabelValues(u.EventType).Inc()
	return u, nil
}

// List returns records in arrival order.
func (s *Service) List(ctx context.Context, f Filter) ([]*Update, error) {
	return s.repo.List(ctx, f)
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
