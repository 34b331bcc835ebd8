package index

import (
	"log/slog"

	"github.com/starford/graphol/internal/storage"
)

// CompileFunc translates the diagram at path and records the run.
// A returned error has already been recorded as a failed run unless the
// store itself failed.
type CompileFunc func(path string, data []byte) error

// Sync walks the workspace and brings the index up to date:
//   - new/changed diagrams are compiled
//   - diagrams removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, compile CompileFunc, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := compile(m.Path, data); err != nil {
			logger.Warn("sync: compile failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: compiled", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDiagram(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}
