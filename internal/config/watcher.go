package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the settings file when it changes on disk and hands the
// merged result to a callback. Editors commonly replace files via rename,
// so the parent directory is watched rather than the file itself.
type Watcher struct {
	fsw  *fsnotify.Watcher
	path string
	done chan struct{}
}

// Watch starts watching the settings file. onChange is called with the
// freshly loaded configuration after every successful reload; load errors
// are reported through onError, which may be nil.
func Watch(path string, onChange func(Config), onError func(error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", dir, err)
	}

	w := &Watcher{
		fsw:  fsw,
		path: path,
		done: make(chan struct{}),
	}

	go w.loop(onChange, onError)
	return w, nil
}

// loop forwards relevant filesystem events until Close.
func (w *Watcher) loop(onChange func(Config), onError func(error)) {
	target := filepath.Clean(w.path)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(cfg)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
