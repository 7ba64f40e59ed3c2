package aerovaldb

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// Watcher invalidates cache entries when another process modifies files
// under the storage root, so long-lived readers see external writes
// without polling.  Watches are per-directory and follow directory
// creation; fsnotify does not recurse on its own.
type Watcher struct {
	db      *Db
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching the handle's storage root.
func (db *Db) Watch() (w *Watcher, err error) {
	defer Return(&err)

	w = &Watcher{db: db, done: make(chan struct{})}
	w.watcher, err = fsnotify.NewWatcher()
	Ck(err)

	err = w.addTree(db.Dir)
	Ck(err)

	go w.loop()
	return w, nil
}

// addTree watches dir and every subdirectory under it, skipping hidden
// directories.
func (w *Watcher) addTree(dir string) (err error) {
	defer Return(&err)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
	Ck(err)
	return nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	log.Debugf("watcher event: %s", event)
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				log.Warnf("watch new dir %s: %v", event.Name, err)
			}
			return
		}
	}
	if event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
		w.db.cache.InvalidateEntry(event.Name)
	}
}

// Close stops the watcher.  Pending events may still be delivered to
// the cache before the loop exits.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
