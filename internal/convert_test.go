package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/importer"
)

func writeInputs(t *testing.T, files map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestConvert_Stdout(t *testing.T) {
	files := writeInputs(t, map[string]string{"a.md": "# Alpha"})
	var out bytes.Buffer
	err := Convert(context.Background(), ConvertRequest{
		Files:     files,
		Overrides: []importer.Option{importer.WithTitleExtraction(true)},
	}, WithConfig(NewDefaultConfig()), WithStdout(&out))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var results []importer.BatchResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode %s: %v", out.String(), err)
	}
	if len(results) != 1 || results[0].ID != files[0] || results[0].Title != "Alpha" {
		t.Errorf("results = %+v", results)
	}
}

func TestConvert_OutDir(t *testing.T) {
	files := writeInputs(t, map[string]string{"one.md": "one", "sub/two.markdown": "- two"})
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := NewDefaultConfig()
	cfg.Import.Workers = 4

	if err := Convert(context.Background(), ConvertRequest{Files: files, OutDir: outDir}, WithConfig(cfg)); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for _, name := range []string{"one.json", "two.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.Contains(string(data), `"document"`) {
			t.Errorf("%s = %s", name, data)
		}
	}
}

func TestConvert_AllOrNothing(t *testing.T) {
	files := writeInputs(t, map[string]string{"good.md": "fine", "bad.md": "  "})
	outDir := filepath.Join(t.TempDir(), "out")
	err := Convert(context.Background(), ConvertRequest{Files: files, OutDir: outDir}, WithConfig(NewDefaultConfig()))
	if !errors.Is(err, apperr.ErrBatchItemFailed) {
		t.Fatalf("error = %v, want BATCH_ITEM_FAILED", err)
	}
	if _, statErr := os.Stat(outDir); !os.IsNotExist(statErr) {
		t.Error("no output should be written when an item fails")
	}
}

func TestConvert_Errors(t *testing.T) {
	cfg := WithConfig(NewDefaultConfig())
	if err := Convert(context.Background(), ConvertRequest{}, cfg); err == nil {
		t.Error("expected error without files")
	}
	if err := Convert(context.Background(), ConvertRequest{Files: []string{"/nonexistent/x.md"}}, cfg); err == nil {
		t.Error("expected error for unreadable file")
	}
	if err := Convert(context.Background(), ConvertRequest{Files: []string{"x.md"}}); err == nil {
		t.Error("expected error without config")
	}

	dir := t.TempDir()
	a := filepath.Join(dir, "a", "same.md")
	b := filepath.Join(dir, "b", "same.md")
	for _, p := range []string{a, b} {
		_ = os.MkdirAll(filepath.Dir(p), 0o755)
		_ = os.WriteFile(p, []byte("x"), 0o644)
	}
	err := Convert(context.Background(), ConvertRequest{Files: []string{a, b}, OutDir: t.TempDir()}, cfg)
	if err == nil || !strings.Contains(err.Error(), "same.json") {
		t.Errorf("duplicate output error = %v", err)
	}
}

func TestOutputName(t *testing.T) {
	for in, want := range map[string]string{"notes/today.md": "today.json", "x.markdown": "x.json", "plain": "plain.json"} {
		if got := outputName(in); got != want {
			t.Errorf("outputName(%q) = %q, want %q", in, got, want)
		}
	}
}
