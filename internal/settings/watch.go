package settings

import (
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

// settle is how long the file must stay quiet before it is re-read, so an
// editor's write-then-rename lands as one reload.
const settle = 100 * time.Millisecond

// Watcher delivers freshly loaded settings on C whenever the file changes.
// Only the latest value is kept if the receiver falls behind.
type Watcher struct {
	C <-chan Settings

	c    chan Settings
	fs   *fsnotify.Watcher
	done chan struct{}
}

// Watch observes the directory holding path, since editors and Save
// replace the file rather than write it in place.
func Watch(path string) (*Watcher, error) {
	path = filepath.Clean(path)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Watch(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	c := make(chan Settings, 1)
	w := &Watcher{C: c, c: c, fs: fw, done: make(chan struct{})}
	go w.loop(path)
	return w, nil
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) loop(path string) {
	var reload <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Event:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) == path && !ev.IsAttrib() && !ev.IsDelete() {
				reload = time.After(settle)
			}
		case err, ok := <-w.fs.Error:
			if !ok {
				return
			}
			log.Printf("settings: watcher: %v", err)
		case <-reload:
			reload = nil
			s, err := Load(path)
			if err != nil {
				log.Printf("settings: %v", err)
				break
			}
			w.publish(s)
		}
	}
}

func (w *Watcher) publish(s Settings) {
	select {
	case <-w.c:
	default:
	}
	w.c <- s
}
