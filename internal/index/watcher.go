package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/graphol/internal/storage"
)

// EventCallback is called after a watcher-driven index change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

const reconcileDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the workspace root and recompiles
// diagrams as they change until ctx is cancelled. It calls cb (if non-nil)
// after each index mutation.
//
// New directories created at runtime are added to the watch list. Rename
// events trigger a reconciliation pass that drops index entries whose files
// no longer exist and compiles files that are not indexed yet.
func Watch(ctx context.Context, db *DB, store storage.Provider, root string, logger *slog.Logger, compile CompileFunc, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	notify := func(kind, path string) {
		if cb != nil {
			cb(kind, path)
		}
	}

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time
	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(db, store, logger, compile, notify)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					compileNewDir(db, store, root, absPath, logger, compile, notify)
					continue
				}
			}

			if !storage.IsDiagramFile(absPath) || isHidden(absPath) {
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind := "updated"
				if ev.Op&fsnotify.Create != 0 {
					kind = "created"
				}
				if compileIfChanged(db, store, rel, logger, compile) {
					logger.Debug("watcher: compiled", slog.String("path", rel), slog.String("op", kind))
					notify(kind, rel)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := db.DeleteDiagram(rel); delErr != nil {
					logger.Warn("watcher: delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: deleted", slog.String("path", rel))
				notify("deleted", rel)

			case ev.Op&fsnotify.Rename != 0:
				// Rename fires on the old path only; the new name arrives
				// as a Create when it stays inside a watched directory.
				if delErr := db.DeleteDiagram(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					notify("deleted", rel)
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// compileIfChanged compiles path unless its content matches the last
// translated version. It reports whether a compile ran.
func compileIfChanged(db *DB, store storage.Provider, path string, logger *slog.Logger, compile CompileFunc) bool {
	data, err := store.Read(path)
	if err != nil {
		logger.Warn("watcher: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return false
	}
	if cs, _ := db.GetChecksum(path); cs == storage.Checksum(data) {
		return false
	}
	if err := compile(path, data); err != nil {
		logger.Warn("watcher: compile failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	return true
}

// reconcile removes index entries without a file on disk and compiles
// on-disk diagrams whose content is not indexed.
func reconcile(db *DB, store storage.Provider, logger *slog.Logger, compile CompileFunc, notify EventCallback) {
	checksums, err := db.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}
	metas, err := store.List("")
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]string, len(metas))
	for _, m := range metas {
		disk[m.Path] = m.Checksum
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if delErr := db.DeleteDiagram(p); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("path", p))
				notify("deleted", p)
			}
		}
	}

	for p, cs := range disk {
		if checksums[p] == cs {
			continue
		}
		data, readErr := store.Read(p)
		if readErr != nil {
			continue
		}
		if err := compile(p, data); err != nil {
			logger.Warn("reconcile: compile failed", slog.String("path", p), slog.String("error", err.Error()))
		}
		notify("created", p)
	}
}

// compileNewDir compiles any diagrams found in a newly created directory.
func compileNewDir(db *DB, store storage.Provider, root, dirPath string, logger *slog.Logger, compile CompileFunc, notify EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !storage.IsDiagramFile(path) || isHidden(path) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if compileIfChanged(db, store, rel, logger, compile) {
			logger.Debug("watcher: compiled from new dir", slog.String("path", rel))
			notify("created", rel)
		}
		return nil
	})
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 0 && base[0] == '.'
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
