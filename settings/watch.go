package settings

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a settings file whenever it changes on disk and publishes the result.
// Files that fail to load or validate are reported on Errors and the previous settings stay in use.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string

	Updates chan Settings
	Errors  chan error

	closeCh chan struct{}
	once    sync.Once
}

// Watch starts watching the settings file at path. The directory is watched rather than the
// file so that editors replacing the file on save are still picked up.
func Watch(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Updates: make(chan Settings, 4),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Updates)
	defer close(w.Errors)

	// Writes usually arrive as several events, so reload once the file has been quiet for a moment.
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != w.path {
				continue
			}
			pending = time.After(100 * time.Millisecond)
		case <-pending:
			pending = nil
			s, err := Load(w.path)
			if err != nil {
				w.publishErr(err)
				continue
			}
			select {
			case w.Updates <- s:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publishErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) publishErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
