// Package parser converts Markdown text into the rich-document tree: front
// matter extraction, inline scanning, block classification and list
// aggregation.
package parser

import "fmt"

// TagFormat selects the inline tag syntax.
type TagFormat string

// Tag syntaxes.
const (
	// TagFormatHash recognises #word tags.
	TagFormatHash TagFormat = "hash"
	// TagFormatBracket recognises #[multi word] tags.
	TagFormatBracket TagFormat = "bracket"
)

// ParseTagFormat validates s as a tag format. The empty string selects
// TagFormatHash.
func ParseTagFormat(s string) (TagFormat, error) {
	switch TagFormat(s) {
	case "", TagFormatHash:
		return TagFormatHash, nil
	case TagFormatBracket:
		return TagFormatBracket, nil
	default:
		return "", fmt.Errorf("parser: unknown tag format %q", s)
	}
}

// Option configures inline parsing.
type Option func(*options)

type options struct {
	tagFormat TagFormat
}

// WithTagFormat selects the tag syntax. Unknown values fall back to hash tags.
func WithTagFormat(f TagFormat) Option {
	return func(o *options) {
		if f == TagFormatBracket {
			o.tagFormat = TagFormatBracket
			return
		}
		o.tagFormat = TagFormatHash
	}
}

func newOptions(opts []Option) options {
	o := options{tagFormat: TagFormatHash}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
