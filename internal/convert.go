package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/storage"
)

// ConvertRequest describes a one-shot import of Markdown files.
type ConvertRequest struct {
	Files []string
	// OutDir receives one <name>.json per file. Empty prints a JSON array
	// of batch results to stdout instead.
	OutDir string
	// Overrides apply on top of the configured import defaults.
	Overrides []importer.Option
}

// Convert imports every file as one batch. Nothing is written unless every
// file imports.
func Convert(ctx context.Context, req ConvertRequest, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config
	logger := newLogger(os.Stderr, cfg.App.LogLevel)

	if len(req.Files) == 0 {
		return fmt.Errorf("no input files")
	}

	items := make([]importer.BatchItem, len(req.Files))
	outNames := make(map[string]string, len(req.Files))
	for i, file := range req.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		name := outputName(file)
		if prev, ok := outNames[name]; ok && req.OutDir != "" {
			return fmt.Errorf("%s and %s would both write %s", prev, file, name)
		}
		outNames[name] = file
		items[i] = importer.BatchItem{ID: file, Content: string(data)}
	}

	imp := importer.New(cfg.Import.Options(), logger)
	var (
		results []importer.BatchResult
		err     error
	)
	if cfg.Import.Workers > 1 {
		results, err = imp.ImportBatchConcurrent(ctx, items, cfg.Import.Workers, req.Overrides...)
	} else {
		results, err = imp.ImportBatch(items, req.Overrides...)
	}
	if err != nil {
		return err
	}

	if req.OutDir == "" {
		enc := json.NewEncoder(app.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}
	out, err := storage.NewFS(req.OutDir)
	if err != nil {
		return err
	}
	for _, r := range results {
		data, err := json.MarshalIndent(r.ImportedDocument, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.ID, err)
		}
		name := outputName(r.ID)
		if err := out.Write(name, append(data, '\n')); err != nil {
			return err
		}
		logger.Info("converted", slog.String("source", r.ID), slog.String("output", filepath.Join(req.OutDir, name)))
	}
	return nil
}

// outputName maps notes/today.md to today.json.
func outputName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}
