package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name    string `yaml:"name"`
	Workers int    `yaml:"workers"`
}

func (s *sample) Validate() error {
	if s.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("RAIDO_TEST_NAME", "vault-a")
	cfg := sample{Workers: 1}
	if err := Load(writeConfig(t, "name: ${RAIDO_TEST_NAME}\n"), &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "vault-a" || cfg.Workers != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	var cfg sample
	if err := Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err == nil {
		t.Error("expected error for missing file")
	}
	if err := Load(writeConfig(t, "name: [unclosed\n"), &cfg); err == nil {
		t.Error("expected parse error")
	}
	err := Load(writeConfig(t, "workers: -2\n"), &cfg)
	if err == nil || !strings.Contains(err.Error(), "validation") {
		t.Errorf("validation error = %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg := sample{Name: "default"}
	if err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"), &cfg); err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Name != "default" {
		t.Errorf("defaults changed: %+v", cfg)
	}

	if err := LoadOrDefault(writeConfig(t, "name: file\n"), &cfg); err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Name != "file" {
		t.Errorf("file not applied: %+v", cfg)
	}

	bad := sample{Workers: -1}
	if err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}
}
