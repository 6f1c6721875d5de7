package prefabs

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind tells a reload listener which data set a file belongs to.
type ChangeKind int

const (
	ChangeTuning ChangeKind = iota
	ChangeScript
	ChangeCatalog
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTuning:
		return "tuning"
	case ChangeScript:
		return "script"
	case ChangeCatalog:
		return "catalog"
	}
	return "unknown"
}

type Change struct {
	Path string
	Kind ChangeKind
}

const defaultDebounce = 100 * time.Millisecond

// Watcher reports edits to tuning yaml, loot scripts and the level catalog.
// Bursts of writes to the same file within Debounce collapse into one Change.
type Watcher struct {
	Debounce time.Duration

	watcher *fsnotify.Watcher
	changes chan Change
	errors  chan error
	once    sync.Once
	done    chan struct{}
}

// NewWatcher watches each directory that exists; missing directories are
// skipped so a binary run outside the repo still starts.
func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	added := 0
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			slog.Debug("prefabs: skip watch dir", "dir", dir, "err", err)
			continue
		}
		added++
	}
	if added == 0 {
		slog.Debug("prefabs: no watch dirs available", "dirs", dirs)
	}

	return &Watcher{
		Debounce: defaultDebounce,
		watcher:  fw,
		changes:  make(chan Change, 16),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}, nil
}

func (w *Watcher) Changes() <-chan Change { return w.changes }

func (w *Watcher) Errors() <-chan error { return w.errors }

// Run pumps filesystem events until ctx is cancelled or Close is called.
// Both channels are closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer close(w.errors)

	last := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			change, ok := classify(ev)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[change.Path]; seen && now.Sub(t) < w.Debounce {
				continue
			}
			last[change.Path] = now
			select {
			case w.changes <- change:
			default:
				slog.Warn("prefabs: reload queue full, dropping change", "path", change.Path)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func classify(ev fsnotify.Event) (Change, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return Change{}, false
	}
	path := filepath.ToSlash(ev.Name)
	base := filepath.Base(path)
	switch {
	case isScriptFile(path):
		return Change{Path: path, Kind: ChangeScript}, true
	case !isSpecFile(path):
		return Change{}, false
	case strings.Contains(path, "levels/") || base == "catalog.yaml":
		return Change{Path: path, Kind: ChangeCatalog}, true
	}
	return Change{Path: path, Kind: ChangeTuning}, true
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
