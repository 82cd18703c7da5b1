// Package storage defines the vault file-system abstraction the importer reads
// Markdown sources from.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/models"
)

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every Markdown source under dir (relative to the root).
	List(dir string) ([]models.SourceMetadata, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
}

// IsMarkdown reports whether name has a .md or .markdown extension.
func IsMarkdown(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
