package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
	"github.com/wordlink/wordlink/internal/updates"
)

func TestHandleAndFlush_Debounces(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.docx"), []byte("12345"), 0o644))

	svc := updates.NewService(updates.NewMemoryRepository(0))
	w := New(dir, svc, time.Second)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	path := filepath.Join(dir, "a.docx")
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Create})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write})
	w.handle(fsnotify.Event{Name: path, Op: fsnotify.Chmod})

	ctx := context.Background()
	w.flush(ctx)
	list, _ := svc.List(ctx, updates.Filter{})
	require.Empty(t, list)

	clock = clock.Add(2 * time.Second)
	w.flush(ctx)
	list, _ = svc.List(ctx, updates.Filter{})
	require.Len(t, list, 1)
	require.Equal(t, "a.docx", list[0].DocumentName)
	require.Equal(t, EventType, list[0].EventType)
	require.EqualValues(t, 5, *list[0].ContentLength)

	w.flush(ctx)
	list, _ = svc.List(ctx, updates.Filter{})
	require.Len(t, list, 1)
}

func TestRun_RecordsFileWrites(t *testing.T) {
	dir := t.TempDir()
	svc := updates.NewService(updates.NewMemoryRepository(0))
	w := New(dir, svc, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watch time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "live.docx"), []byte("data"), 0o644))

	require.Eventually(t, func() bool {
		list, _ := svc.List(context.Background(), updates.Filter{DocumentName: "live.docx"})
		return len(list) >= 1
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_MissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), updates.NewService(updates.NewMemoryRepository(0)), 0)
	require.Error(t, w.Run(context.Background()))
}
