package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/wordlink/wordlink/internal/document"
	"github.com/wordlink/wordlink/internal/document/service"
	"github.com/wordlink/wordlink/internal/updates"
	"github.com/wordlink/wordlink/pkg/logger"
)

// EventType is recorded for changes picked up from disk.
const EventType = "file-change"

// Watcher records a document update whenever a .docx in the documents
// directory is created or written. Bursts of events for one file (editors
// save in several steps) collapse into a single record.
type Watcher struct {
	dir      string
	recorder service.Recorder
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
	now     func() time.Time
}

func New(dir string, rec service.Recorder, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		dir:      dir,
		recorder: rec,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		now:      time.Now,
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	logger.Infof("watching %s for document changes", w.dir)

	tick := time.NewTicker(w.debounce / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("document watcher: %v", err)
		case <-tick.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	name := filepath.Base(ev.Name)
	if !document.IsDocx(name) || service.ValidateName(name) != nil {
		return
	}
	w.mu.Lock()
	w.pending[name] = w.now()
	w.mu.Unlock()
	logger.Debugf("document watcher: %s %s", ev.Op, name)
}

// flush records every file that has been quiet for the debounce period.
func (w *Watcher) flush(ctx context.Context) {
	now := w.now()
	var ready []string
	w.mu.Lock()
	for name, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, name)
			delete(w.pending, name)
		}
	}
	w.mu.Unlock()

	for _, name := range ready {
		u := &updates.Update{DocumentName: name, EventType: EventType}
		if fi, err := os.Stat(filepath.Join(w.dir, name)); err == nil {
			u.ContentLength = updates.Int64(fi.Size())
		}
		if _, err := w.recorder.Record(ctx, u); err != nil {
			logger.Warnf("record change for %s: %v", name, err)
		}
	}
}
