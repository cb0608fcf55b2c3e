package lock

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watch calls fn whenever the marker is modified, removed or renamed by
// someone else while the lock is held. It stops once the lock is released.
// Errors from the underlying watcher are also passed to fn.
func (l *Lock) Watch(fn func(error)) error {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()

	if l.watcher != nil {
		return errors.New("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create watcher")
	}

	// Watch the directory, since the marker itself may be replaced.
	if err := watcher.Add(filepath.Dir(l.Path)); err != nil {
		watcher.Close()
		return errors.Wrap(err, "failed to watch lock directory")
	}

	l.watcher = watcher
	l.watchDone = make(chan struct{})

	go l.watch(watcher, l.watchDone, fn)
	return nil
}

func (l *Lock) watch(w *fsnotify.Watcher, done chan struct{}, fn func(error)) {
	defer close(done)

	name := filepath.Clean(l.Path)

	for {
		select {
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			fn(errors.Wrap(err, "lock watcher error"))

		case ev, ok := <-w.Events:
			if !ok {
				return
			}

			if filepath.Clean(ev.Name) != name {
				continue
			}

			switch {
			case ev.Op&fsnotify.Remove != 0:
				fn(errors.Errorf("%s was removed while the server is running", l.Path))
			case ev.Op&fsnotify.Rename != 0:
				fn(errors.Errorf("%s was renamed while the server is running", l.Path))
			case ev.Op&fsnotify.Write != 0:
				fn(errors.Errorf("%s was modified while the server is running", l.Path))
			}
		}
	}
}

func (l *Lock) stopWatching() {
	l.watchMu.Lock()
	defer l.watchMu.Unlock()

	if l.watcher == nil {
		return
	}

	l.watcher.Close()
	<-l.watchDone

	l.watcher = nil
	l.watchDone = nil
}
