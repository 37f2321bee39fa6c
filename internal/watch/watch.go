package watch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Op is the kind of change observed.
type Op string

const (
	Created  Op = "created"
	Modified Op = "modified"
)

// Event is emitted once a file has been quiet for the debounce period.
type Event struct {
	Path string
	Op   Op
}

// Watcher reports new and changed input files in a directory.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions map[string]bool
	debounce   time.Duration
	log        *zap.Logger
}

// New creates a watcher. Empty extensions means .txt, .md, .pdf and .docx.
func New(extensions []string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".txt", ".md", ".pdf", ".docx"}
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Watcher{watcher: w, extensions: exts, debounce: debounce, log: log}, nil
}

// Watch starts monitoring dir. The channel closes when ctx is done or the
// watcher is stopped.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan Event, 100)
	go func() {
		defer close(events)

		type pending struct {
			op   Op
			last time.Time
		}
		queue := make(map[string]pending)
		tick := time.NewTicker(w.debounce / 2)
		defer tick.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.extensions[strings.ToLower(filepath.Ext(event.Name))] {
					continue
				}
				var op Op
				switch {
				case event.Has(fsnotify.Create):
					op = Created
				case event.Has(fsnotify.Write):
					op = Modified
				default:
					continue
				}
				p, seen := queue[event.Name]
				if seen && p.op == Created {
					op = Created
				}
				queue[event.Name] = pending{op: op, last: time.Now()}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", zap.Error(err))
			case now := <-tick.C:
				for path, p := range queue {
					if now.Sub(p.last) < w.debounce {
						continue
					}
					delete(queue, path)
					select {
					case events <- Event{Path: path, Op: p.op}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
	return events, nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}
