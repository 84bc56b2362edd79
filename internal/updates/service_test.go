package updates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/wordlink/wordlink/pkg/metrics"
)

type failingRepo struct{ MemoryRepository }

func (f *failingRepo) Append(ctx context.Context, u *Update) error {
	return errors.New("disk full")
}

func TestService_RecordFillsDefaults(t *testing.T) {
	repo := NewMemoryRepository(0)
	svc := NewService(repo)
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	before := testutil.ToFloat64(metrics.DocumentUpdates.WithLabelValues(DefaultEventType))
	u, err := svc.Record(context.Background(), &Update{DocumentName: "  report.docx ", ContentLength: Int64(42)})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "report.docx", u.DocumentName)
	require.Equal(t, "2024-03-01T10:00:00Z", u.Timestamp)
	require.Equal(t, DefaultEventType, u.EventType)
	require.Equal(t, fixed, u.ReceivedAt)
	require.Equal(t, before+1, testutil.ToFloat64(metrics.DocumentUpdates.WithLabelValues(DefaultEventType)))

	list, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, u.ID, list[0].ID)
}

func TestService_RecordKeepsClientFields(t *testing.T) {
	svc := NewService(NewMemoryRepository(0))
	u, err := svc.Record(context.Background(), &Update{Timestamp: "2020-01-01T00:00:00Z", EventType: "save"})
	require.NoError(t, err)
	require.Equal(t, "2020-01-01T00:00:00Z", u.Timestamp)
	require.Equal(t, "save", u.EventType)
}

func TestService_RecordDistinctIDs(t *testing.T) {
	svc := NewService(NewMemoryRepository(0))
	a, err := svc.Record(context.Background(), &Update{})
	require.NoError(t, err)
	b, err := svc.Record(context.Background(), &Update{})
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)
}

func TestService_RecordRepoError(t *testing.T) {
	svc := NewService(&failingRepo{})
	_, err := svc.Record(context.Background(), &Update{})
	require.Error(t, err)
}
