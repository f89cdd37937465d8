package fileops

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/shawnamir/sced/pkg/elog"
)

// Watcher notices when a buffer's backing file changes on disk after it
// was loaded, so the buffer's Collision bit can be set. Grounded on the
// teacher's control-path bookkeeping in pkg/session/manager.go, which
// tracks one entry per on-disk path under a single mutex.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	onChange map[string]func()
}

// NewWatcher starts an fsnotify watcher. Callers should Close it on
// shutdown.
func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher := &Watcher{watcher: w, onChange: make(map[string]func())}
	go watcher.loop()
	return watcher, nil
}

// Watch registers path; onChange is invoked (from the watcher's own
// goroutine — callers must hop back onto the single-threaded event loop
// themselves, e.g. by posting to a channel) whenever the file is written
// or removed externally.
func (w *Watcher) Watch(path string, onChange func()) error {
	w.mu.Lock()
	w.onChange[path] = onChange
	w.mu.Unlock()
	return w.watcher.Add(path)
}

// Unwatch stops tracking path (e.g. when its buffer is killed).
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	delete(w.onChange, path)
	w.mu.Unlock()
	_ = w.watcher.Remove(path)
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			cb := w.onChange[ev.Name]
			w.mu.Unlock()
			if cb != nil {
				cb()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			elog.Errorf("fileops: watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
