package fileops

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/elog"
)

// Watcher detects a file changing on disk after a buffer has loaded it
// and reports each change to its onChange callback. It does not set the
// buffer's collision bit itself.
type Watcher struct {
	w        *fsnotify.Watcher
	onChange func(path string)
	done     chan struct{}
}

// Watch watches path's containing directory (rather than the bare file)
// so that editors which save by write-to-temp-then-rename are still
// detected, and invokes onChange whenever path itself changes.
func Watch(path string, onChange func(path string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, editorerr.Wrap(editorerr.IO, "Cannot watch file", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, editorerr.Wrap(editorerr.IO, "Cannot watch file", err)
	}

	watcher := &Watcher{w: w, onChange: onChange, done: make(chan struct{})}
	go watcher.loop(path)
	return watcher, nil
}

func (watcher *Watcher) loop(path string) {
	target, err := filepath.Abs(path)
	if err != nil {
		target = path
	}
	for {
		select {
		case ev, ok := <-watcher.w.Events:
			if !ok {
				return
			}
			evPath, err := filepath.Abs(ev.Name)
			if err != nil {
				evPath = ev.Name
			}
			if evPath != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Rename|fsnotify.Create) != 0 {
				watcher.onChange(path)
			}
		case err, ok := <-watcher.w.Errors:
			if !ok {
				return
			}
			elog.Warnf("fileops: watch error for %s: %v", path, err)
		case <-watcher.done:
			return
		}
	}
}

// Close stops watching.
func (watcher *Watcher) Close() error {
	close(watcher.done)
	return watcher.w.Close()
}
