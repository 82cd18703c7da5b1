package index

import (
	"errors"
	"log/slog"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/storage"
)

// SyncStats summarises one Sync pass.
type SyncStats struct {
	Indexed int
	Removed int
	Failed  int
}

// Sync walks the vault and brings the index up to date:
//   - new/changed files are imported and upserted
//   - files removed from disk are deleted from the index
//   - files that went blank lose their previous entry
//
// A file that fails to import is logged and counted; it never aborts the pass.
func Sync(db DocumentIndex, store storage.Provider, imp *importer.Importer, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	metas, err := store.List("")
	if err != nil {
		return stats, err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			stats.Failed++
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if _, err := IndexSource(db, imp, m.Path, data, m.UpdatedAt); err != nil {
			if errors.Is(err, apperr.ErrInvalidContent) {
				removed, dropErr := DropSource(db, m.Path)
				if dropErr == nil && removed {
					stats.Removed++
					logger.Debug("sync: removed blank", slog.String("path", m.Path))
					continue
				}
				if dropErr != nil {
					err = dropErr
				}
			}
			stats.Failed++
			logger.Warn("sync: import failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		stats.Indexed++
		logger.Debug("sync: indexed", slog.String("path", m.Path))
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if err := db.DeleteDocument(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		stats.Removed++
		logger.Debug("sync: removed stale", slog.String("path", p))
	}

	return stats, nil
}

// IndexSource imports data with the importer's defaults and upserts the
// result under path.
func IndexSource(db DocumentIndex, imp *importer.Importer, path string, data []byte, modTime time.Time) (*DocumentRow, error) {
	res, err := imp.Import(string(data))
	if err != nil {
		return nil, err
	}
	row := RowFromImport(path, checksum.Sum(data), res)
	row.UpdatedAt = modTime
	if err := db.UpsertDocument(row); err != nil {
		return nil, err
	}
	return &row, nil
}

// DropSource removes the entry for a source that no longer imports. It
// reports whether an entry existed.
func DropSource(db DocumentIndex, path string) (bool, error) {
	err := db.DeleteDocument(path)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RowFromImport builds the stored form of an imported document. Tags are the
// front matter "tags" entries followed by inline tags, without duplicates.
func RowFromImport(path, sum string, res *importer.ImportedDocument) DocumentRow {
	return DocumentRow{
		Path:        path,
		Title:       res.Title,
		Checksum:    sum,
		Document:    res.Document,
		FrontMatter: res.FrontMatter,
		Tags:        collectTags(res),
	}
}

func collectTags(res *importer.ImportedDocument) []string {
	seen := make(map[string]struct{})
	out := []string{}
	add := func(tag string) {
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if v, ok := res.FrontMatter.Get("tags"); ok {
		if v.IsList() {
			for _, t := range v.Items() {
				add(t)
			}
		} else {
			add(v.String())
		}
	}
	for _, t := range res.Document.Tags() {
		add(t)
	}
	return out
}
