// Package docservice coordinates the importer, the vault storage and the
// document index behind one API used by the HTTP and MCP front ends.
package docservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// DocumentDetail is the full representation of a stored document.
type DocumentDetail struct {
	Path        string              `json:"path"`
	Title       string              `json:"title"`
	Checksum    string              `json:"checksum"`
	Tags        []string            `json:"tags"`
	FrontMatter *models.FrontMatter `json:"frontMatter,omitempty"`
	Document    models.Document     `json:"document"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ErrEntryDropped is matched by IndexFile errors when the vault file no
// longer imports and its previous index entry was removed.
var ErrEntryDropped = errors.New("docservice: index entry dropped")

type droppedError struct{ error }

func (e droppedError) Unwrap() []error { return []error{e.error, ErrEntryDropped} }

// Service coordinates storage, importer and index operations.
type Service struct {
	store   storage.Provider
	db      index.DocumentIndex
	imp     *importer.Importer
	workers int
	logger  *slog.Logger
}

// NewService creates a document service. workers above one enables the
// parallel batch import.
func NewService(store storage.Provider, db index.DocumentIndex, imp *importer.Importer, workers int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, db: db, imp: imp, workers: workers, logger: logger}
}

// Importer returns the importer carrying the configured defaults.
func (s *Service) Importer() *importer.Importer {
	return s.imp
}

// Import converts content without touching storage or the index.
func (s *Service) Import(_ context.Context, content string, opts ...importer.Option) (*importer.ImportedDocument, error) {
	return s.imp.Import(content, opts...)
}

// ImportJSON converts content and returns the serialized document.
func (s *Service) ImportJSON(_ context.Context, content string, opts ...importer.Option) (string, error) {
	return s.imp.ImportJSON(content, opts...)
}

// ImportBatch converts every item or fails on the first bad one.
func (s *Service) ImportBatch(ctx context.Context, items []importer.BatchItem, opts ...importer.Option) ([]importer.BatchResult, error) {
	if s.workers > 1 {
		return s.imp.ImportBatchConcurrent(ctx, items, s.workers, opts...)
	}
	return s.imp.ImportBatch(items, opts...)
}

// IndexFile re-imports the vault file at path and stores the result. A file
// that went blank loses its previous entry.
func (s *Service) IndexFile(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	row, err := index.IndexSource(s.db, s.imp, path, data, time.Now())
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalidContent) {
			return nil, err
		}
		removed, dropErr := index.DropSource(s.db, path)
		if dropErr != nil {
			return nil, dropErr
		}
		if removed {
			s.logger.Debug("docservice: dropped blank", slog.String("path", path))
			return nil, droppedError{err}
		}
		return nil, err
	}
	s.logger.Debug("docservice: indexed", slog.String("path", path))
	return detailFromRow(row), nil
}

// GetDocument returns a stored document.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	row, err := s.db.GetDocument(path)
	if err != nil {
		return nil, err
	}
	return detailFromRow(row), nil
}

// ListDocuments returns paginated documents with an optional tag filter.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, tag string) ([]index.DocumentSummary, int, error) {
	return s.db.ListDocuments(limit, offset, tag)
}

// DeleteDocument drops a document from the index. The vault file is left
// alone.
func (s *Service) DeleteDocument(_ context.Context, path string) error {
	return s.db.DeleteDocument(path)
}

// Tags returns tag usage counts.
func (s *Service) Tags(_ context.Context) ([]index.TagCount, error) {
	return s.db.Tags()
}

func detailFromRow(r *index.DocumentRow) *DocumentDetail {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &DocumentDetail{
		Path:        r.Path,
		Title:       r.Title,
		Checksum:    r.Checksum,
		Tags:        tags,
		FrontMatter: r.FrontMatter,
		Document:    r.Document,
		UpdatedAt:   r.UpdatedAt,
	}
}
