package index

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/storage"
)

// Event kinds reported to an EventCallback.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

const reconcileDelay = 200 * time.Millisecond

// EventCallback is called after a watcher-driven index change.
type EventCallback func(kind string, path string)

// Watcher re-imports vault files as they change on disk.
type Watcher struct {
	db     DocumentIndex
	store  storage.Provider
	imp    *importer.Importer
	root   string
	logger *slog.Logger
	cb     EventCallback
}

// NewWatcher prepares a watcher over root. cb may be nil.
func NewWatcher(db DocumentIndex, store storage.Provider, imp *importer.Importer, root string, logger *slog.Logger, cb EventCallback) *Watcher {
	if cb == nil {
		cb = func(string, string) {}
	}
	return &Watcher{db: db, store: store, imp: imp, root: root, logger: logger, cb: cb}
}

// Run processes fsnotify events until ctx is cancelled.
//
// Directories created at runtime are added to the watch list and their
// Markdown files imported. fsnotify reports a rename on the old path only, so
// the old entry is dropped at once and a debounced reconcile pass picks up the
// new one.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}
	w.logger.Info("watcher: started", slog.String("root", w.root))

	var (
		reconcileTimer *time.Timer
		reconcileCh    <-chan time.Time
	)
	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
			return
		}
		reconcileTimer.Reset(reconcileDelay)
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			w.reconcile()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev, scheduleReconcile)

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event, scheduleReconcile func()) {
	absPath := ev.Name

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(absPath); err == nil && info.IsDir() {
			if isHidden(filepath.Base(absPath)) {
				return
			}
			if err := addDirsRecursive(fw, absPath); err != nil {
				w.logger.Warn("watcher: add new dir failed", slog.String("path", absPath), slog.String("error", err.Error()))
			}
			w.importDir(absPath)
			return
		}
	}

	if !storage.IsMarkdown(absPath) {
		return
	}
	rel, ok := w.relative(absPath)
	if !ok {
		return
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		kind := EventUpdated
		if ev.Op&fsnotify.Create != 0 {
			kind = EventCreated
		}
		w.importFile(rel, kind)

	case ev.Op&fsnotify.Remove != 0:
		w.remove(rel)

	case ev.Op&fsnotify.Rename != 0:
		w.remove(rel)
		scheduleReconcile()
	}
}

func (w *Watcher) importFile(rel, kind string) {
	data, err := w.store.Read(rel)
	if err != nil {
		w.logger.Warn("watcher: read failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if _, err := IndexSource(w.db, w.imp, rel, data, time.Now()); err != nil {
		if errors.Is(err, apperr.ErrInvalidContent) {
			w.logger.Debug("watcher: source blank", slog.String("path", rel))
			w.remove(rel)
			return
		}
		w.logger.Warn("watcher: import failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("watcher: indexed", slog.String("path", rel), slog.String("op", kind))
	w.cb(kind, rel)
}

func (w *Watcher) remove(rel string) {
	removed, err := DropSource(w.db, rel)
	if err != nil {
		w.logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", err.Error()))
		return
	}
	if !removed {
		return
	}
	w.logger.Debug("watcher: deleted", slog.String("path", rel))
	w.cb(EventDeleted, rel)
}

// reconcile removes index entries without a file and imports files that are
// missing or stale in the index.
func (w *Watcher) reconcile() {
	checksums, err := w.db.AllChecksums()
	if err != nil {
		w.logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := w.store.List("")
	if err != nil {
		w.logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			w.remove(p)
		}
	}
	for p, cs := range disk {
		if checksums[p] == cs {
			continue
		}
		kind := EventCreated
		if _, ok := checksums[p]; ok {
			kind = EventUpdated
		}
		w.importFile(p, kind)
	}
}

func (w *Watcher) importDir(dir string) {
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !storage.IsMarkdown(path) {
			return nil
		}
		if rel, ok := w.relative(path); ok {
			w.importFile(rel, EventCreated)
		}
		return nil
	})
}

func (w *Watcher) relative(abs string) (string, bool) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if isHidden(part) {
			return "", false
		}
	}
	return filepath.ToSlash(rel), true
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// addDirsRecursive adds root and all its non-hidden subdirectories.
func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}
