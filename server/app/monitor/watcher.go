package monitor

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"sfmp/server/app/models"
	"sfmp/server/app/repo"
)

const eventQueueSize = 128

// Event is one normalized change under the served root.
type Event struct {
	Op   string
	Path string
	At   time.Time
}

// Watcher follows the served root recursively and records the last change
// seen per path. Persisting runs on its own goroutine behind a bounded
// queue so a slow database never backs up the kernel event stream.
type Watcher struct {
	watcher *fsnotify.Watcher
	paths   *repo.WatchedPathRepository
	log     zerolog.Logger

	watched map[string]struct{}
	mu      sync.Mutex

	queue chan Event
	stop  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// New prepares a watcher over rootDir. The repository may be nil, in which
// case events are only logged.
func New(rootDir string, paths *repo.WatchedPathRepository, log zerolog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("monitor: root is not a directory")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		paths:   paths,
		log:     log.With().Str("component", "monitor").Logger(),
		watched: make(map[string]struct{}),
		queue:   make(chan Event, eventQueueSize),
		stop:    make(chan struct{}),
	}
	if err := w.watchRecursive(filepath.Clean(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Start launches the event and persist loops.
func (w *Watcher) Start() {
	w.wg.Add(2)
	go w.readEvents()
	go w.persistEvents()
	w.log.Info().Int("dirs", len(w.watched)).Msg("root monitor started")
}

func (w *Watcher) readEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(evt)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(evt fsnotify.Event) {
	path := filepath.Clean(evt.Name)
	now := time.Now()

	if evt.Op&fsnotify.Create != 0 {
		// watch a new directory before announcing it so writes that land
		// inside right after are not missed
		if w.isDir(path) {
			if err := w.watchRecursive(path); err != nil {
				w.log.Warn().Err(err).Str("path", path).Msg("watch new directory failed")
			}
		}
		w.emit(Event{Op: "create", Path: path, At: now})
	}
	if evt.Op&fsnotify.Write != 0 {
		w.emit(Event{Op: "write", Path: path, At: now})
	}
	if evt.Op&fsnotify.Remove != 0 {
		w.emit(Event{Op: "remove", Path: path, At: now})
		w.removeWatch(path)
	}
	if evt.Op&fsnotify.Rename != 0 {
		w.emit(Event{Op: "rename", Path: path, At: now})
		w.removeWatch(path)
	}
}

func (w *Watcher) emit(e Event) {
	select {
	case w.queue <- e:
	default:
		w.log.Warn().Str("path", e.Path).Str("op", e.Op).Msg("monitor backpressure, dropping event")
	}
}

func (w *Watcher) persistEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case e := <-w.queue:
			w.record(e)
		}
	}
}

func (w *Watcher) record(e Event) {
	w.log.Debug().Str("path", e.Path).Str("op", e.Op).Msg("root changed")
	if w.paths == nil {
		return
	}
	rec := &models.WatchedPath{Path: e.Path, LastOp: e.Op, LastEventAt: e.At}
	if err := w.paths.Upsert(rec); err != nil {
		w.log.Error().Err(err).Str("path", e.Path).Msg("persist change failed")
	}
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("cannot access path")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(dir string) error {
	w.mu.Lock()
	if _, exists := w.watched[dir]; exists {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	if err := w.watcher.Add(dir); err != nil {
		return err
	}

	w.mu.Lock()
	w.watched[dir] = struct{}{}
	w.mu.Unlock()
	return nil
}

func (w *Watcher) removeWatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[path]; ok {
		if err := w.watcher.Remove(path); err != nil {
			w.log.Warn().Err(err).Str("path", path).Msg("remove watch failed")
		}
		delete(w.watched, path)
	}
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Close stops both loops and releases the underlying watcher.
func (w *Watcher) Close() error {
	var closeErr error
	w.once.Do(func() {
		close(w.stop)
		closeErr = w.watcher.Close()
	})
	w.wg.Wait()
	return closeErr
}
