// Package importer is the public entry point of the Markdown import pipeline:
// single documents, JSON output and all-or-nothing batches.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
)

// ImportedDocument is the result of a successful import. Title is empty when
// no title could be resolved.
type ImportedDocument struct {
	Document    models.Document     `json:"document"`
	FrontMatter *models.FrontMatter `json:"frontMatter,omitempty"`
	Title       string              `json:"title,omitempty"`
}

// BatchItem is one input of a batch import.
type BatchItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// BatchResult pairs a batch item id with its imported document.
type BatchResult struct {
	ID string `json:"id"`
	ImportedDocument
}

// Importer converts Markdown with a set of default options.
type Importer struct {
	defaults Options
	logger   *slog.Logger
}

// New returns an Importer. A nil logger discards debug output.
func New(defaults Options, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Importer{defaults: defaults, logger: logger}
}

var std = New(DefaultOptions(), nil)

// Import converts content with the default options.
func Import(content string, opts ...Option) (*ImportedDocument, error) {
	return std.Import(content, opts...)
}

// ImportJSON converts content with the default options and returns the
// document serialized as JSON.
func ImportJSON(content string, opts ...Option) (string, error) {
	return std.ImportJSON(content, opts...)
}

// ImportBatch converts items in order with the default options.
func ImportBatch(items []BatchItem, opts ...Option) ([]BatchResult, error) {
	return std.ImportBatch(items, opts...)
}

// Defaults returns the options applied before per-call options.
func (i *Importer) Defaults() Options {
	return i.defaults
}

// Import converts one Markdown document. Content that is blank after
// trimming fails with apperr.CodeInvalidContent.
func (i *Importer) Import(content string, opts ...Option) (*ImportedDocument, error) {
	o := i.options(opts)

	content = strings.ReplaceAll(content, "\r\n", "\n")
	if strings.TrimSpace(content) == "" {
		return nil, apperr.InvalidContent("content is empty")
	}

	body := content
	var fm *models.FrontMatter
	if o.ParseFrontMatter {
		fm, body = parser.ParseFrontMatter(content)
	}

	doc := parser.ParseDocument(body, parser.WithTagFormat(o.TagFormat))
	title := resolveTitle(fm, doc, o)

	i.logger.Debug("import: document parsed",
		slog.Int("blocks", len(doc.Root.Children)),
		slog.Bool("front_matter", fm != nil),
		slog.String("title", title))

	return &ImportedDocument{Document: doc, FrontMatter: fm, Title: title}, nil
}

// ImportJSON converts content and serializes only the document tree.
func (i *Importer) ImportJSON(content string, opts ...Option) (string, error) {
	res, err := i.Import(content, opts...)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(res.Document)
	if err != nil {
		return "", fmt.Errorf("importer: encode document: %w", err)
	}
	return string(data), nil
}

// ImportBatch converts items in input order and stops at the first failure.
// The returned error has code apperr.CodeBatchItemFailed and names the
// failing item's id; no partial results are returned.
func (i *Importer) ImportBatch(items []BatchItem, opts ...Option) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(items))
	for _, item := range items {
		res, err := i.Import(item.Content, opts...)
		if err != nil {
			i.logger.Debug("import: batch item failed", slog.String("id", item.ID), slog.String("error", err.Error()))
			return nil, apperr.BatchItemFailed(item.ID, err)
		}
		results = append(results, BatchResult{ID: item.ID, ImportedDocument: *res})
	}
	return results, nil
}

// ImportBatchConcurrent parses items on up to workers goroutines and folds the
// outcomes in input order, so the reported failure is the first failing item
// by position, not by completion time. Cancelling ctx abandons items that
// have not started and returns ctx.Err().
func (i *Importer) ImportBatchConcurrent(ctx context.Context, items []BatchItem, workers int, opts ...Option) ([]BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	docs := make([]*ImportedDocument, len(items))
	errs := make([]error, len(items))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for idx, item := range items {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			docs[idx], errs[idx] = i.Import(item.Content, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]BatchResult, 0, len(items))
	for idx, item := range items {
		if errs[idx] != nil {
			return nil, apperr.BatchItemFailed(item.ID, errs[idx])
		}
		results = append(results, BatchResult{ID: item.ID, ImportedDocument: *docs[idx]})
	}
	return results, nil
}

func (i *Importer) options(opts []Option) Options {
	o := i.defaults
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveTitle picks the front matter title, then the first h1 when title
// extraction is on.
func resolveTitle(fm *models.FrontMatter, doc models.Document, o Options) string {
	if o.ParseFrontMatter {
		if title, ok := fm.Scalar("title"); ok && strings.TrimSpace(title) != "" {
			return title
		}
	}
	if o.ExtractTitle {
		if h1, ok := doc.FirstHeading(models.HeadingH1); ok {
			return strings.TrimSpace(models.PlainText(h1.Children))
		}
	}
	return ""
}
