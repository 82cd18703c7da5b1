package importer

import "github.com/starford/raido/internal/parser"

// Options controls a single import.
type Options struct {
	// ParseFrontMatter strips a leading "---" header and exposes it.
	ParseFrontMatter bool
	// ExtractTitle falls back to the first h1 when no front matter title exists.
	ExtractTitle bool
	// TagFormat selects #word or #[multi word] tags.
	TagFormat parser.TagFormat
}

// DefaultOptions parses front matter, leaves title extraction off and uses
// hash tags.
func DefaultOptions() Options {
	return Options{
		ParseFrontMatter: true,
		ExtractTitle:     false,
		TagFormat:        parser.TagFormatHash,
	}
}

// Option overrides one field of Options for a single call.
type Option func(*Options)

// WithFrontMatter toggles front matter extraction.
func WithFrontMatter(enabled bool) Option {
	return func(o *Options) {
		o.ParseFrontMatter = enabled
	}
}

// WithTitleExtraction toggles the first-h1 title fallback.
func WithTitleExtraction(enabled bool) Option {
	return func(o *Options) {
		o.ExtractTitle = enabled
	}
}

// WithTagFormat selects the tag syntax.
func WithTagFormat(f parser.TagFormat) Option {
	return func(o *Options) {
		o.TagFormat = f
	}
}

// WithOptions replaces every field at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}
