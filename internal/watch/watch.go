// Package watch implements the FileWatcher collaborator from §6: it
// notifies the event loop when the config file (or its containing
// directory, to survive editor atomic-rename saves) changes.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DebounceInterval coalesces bursts of filesystem events (e.g. an editor's
// write+rename+chmod sequence) into a single reload signal, per §4.11.
const DebounceInterval = 100 * time.Millisecond

// Watcher watches a config file's parent directory and emits a coalesced
// signal on Events whenever the file is written, renamed onto, or removed
// and recreated.
type Watcher struct {
	log     zerolog.Logger
	fsw     *fsnotify.Watcher
	path    string
	Events  chan struct{}
	done    chan struct{}
}

// New starts watching the directory containing path. Per §7 FileWatch,
// failure to start the watcher is degraded, not fatal: the caller gets a
// nil *Watcher and should continue running without hot-reload.
func New(path string, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		log:    log,
		fsw:    fsw,
		path:   filepath.Clean(path),
		Events: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var pending *time.Timer
	fire := make(chan struct{})

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if pending == nil {
				pending = time.AfterFunc(DebounceInterval, func() {
					select {
					case fire <- struct{}{}:
					case <-w.done:
					}
				})
			} else {
				pending.Reset(DebounceInterval)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watcher error")
		case <-fire:
			select {
			case w.Events <- struct{}{}:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher and releases its inotify descriptor.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
