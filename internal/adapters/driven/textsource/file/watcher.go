package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/clausewise/internal/logger"
)

// DefaultSettle is how long a path must stay quiet before its event is
// delivered. Editors and copy tools often write a file in several steps.
const DefaultSettle = 500 * time.Millisecond

// Op is the kind of change observed for a path.
type Op int

const (
	// OpWritten means the file was created or modified.
	OpWritten Op = iota + 1
	// OpRemoved means the file was deleted or renamed away.
	OpRemoved
)

func (o Op) String() string {
	switch o {
	case OpWritten:
		return "written"
	case OpRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is a settled change to a supported agreement file.
type Event struct {
	Path string
	Op   Op
}

// Watcher reports changes to supported files in one directory.
type Watcher struct {
	watcher *fsnotify.Watcher
	dir     string
	settle  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, settle time.Duration) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", dir)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		watcher: w,
		dir:     dir,
		settle:  settle,
		pending: make(map[string]*time.Timer),
	}, nil
}

// Watch emits settled events until ctx is cancelled or Close is called.
// The returned channel is closed when watching stops.
func (w *Watcher) Watch(ctx context.Context) <-chan Event {
	events := make(chan Event, 16)
	var wg sync.WaitGroup

	emit := func(ev Event) {
		defer wg.Done()
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer func() {
			w.stopPending(&wg)
			wg.Wait()
			close(events)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				op, ok := classify(ev)
				if !ok {
					continue
				}
				w.schedule(ev.Name, op, &wg, emit)
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error in %s: %v", w.dir, err)
			}
		}
	}()

	return events
}

// schedule delays delivery of path's event, restarting the timer on
// every new event so only the last operation is reported.
func (w *Watcher) schedule(path string, op Op, wg *sync.WaitGroup, emit func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok && t.Stop() {
		wg.Done()
	}

	wg.Add(1)
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		emit(Event{Path: path, Op: op})
	})
}

// stopPending cancels timers that have not fired yet.
func (w *Watcher) stopPending(wg *sync.WaitGroup) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, t := range w.pending {
		if t.Stop() {
			wg.Done()
		}
		delete(w.pending, path)
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// classify maps an fsnotify event to an Op for supported, visible files.
func classify(ev fsnotify.Event) (Op, bool) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") || !IsSupported(base) {
		return 0, false
	}

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return OpRemoved, true
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return OpWritten, true
	default:
		return 0, false
	}
}
