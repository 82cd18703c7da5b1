package api

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/parser"
)

// ImportOptions overrides the server defaults for one request. Nil fields
// keep the default.
type ImportOptions struct {
	ParseFrontMatter *bool  `json:"parse_front_matter,omitempty"`
	ExtractTitle     *bool  `json:"extract_title,omitempty"`
	TagFormat        string `json:"tag_format,omitempty" example:"hash"`
}

// Validate checks the tag format.
func (o ImportOptions) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.TagFormat, validation.In(string(parser.TagFormatHash), string(parser.TagFormatBracket))),
	)
}

func (o ImportOptions) importerOptions() []importer.Option {
	var opts []importer.Option
	if o.ParseFrontMatter != nil {
		opts = append(opts, importer.WithFrontMatter(*o.ParseFrontMatter))
	}
	if o.ExtractTitle != nil {
		opts = append(opts, importer.WithTitleExtraction(*o.ExtractTitle))
	}
	if o.TagFormat != "" {
		opts = append(opts, importer.WithTagFormat(parser.TagFormat(o.TagFormat)))
	}
	return opts
}

// ImportRequest is the request body of POST /import and POST /import/json.
type ImportRequest struct {
	Content string        `json:"content" example:"# Hello\nWorld"`
	Options ImportOptions `json:"options"`
}

// Validate validates the request. Blank content is left to the importer so
// it is reported as INVALID_CONTENT.
func (r *ImportRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Options),
	)
}

// BatchRequest is the request body of POST /import/batch.
type BatchRequest struct {
	Items   []importer.BatchItem `json:"items"`
	Options ImportOptions        `json:"options"`
}

// Validate requires a non-empty, unique id on every item.
func (r *BatchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Items, validation.NotNil, validation.By(uniqueIDs)),
		validation.Field(&r.Options),
	)
}

func uniqueIDs(value any) error {
	items, _ := value.([]importer.BatchItem)
	seen := make(map[string]int, len(items))
	for i, it := range items {
		if it.ID == "" {
			return fmt.Errorf("item %d: id is required", i)
		}
		if j, ok := seen[it.ID]; ok {
			return fmt.Errorf("items %d and %d share id %q", j, i, it.ID)
		}
		seen[it.ID] = i
	}
	return nil
}

var errEmptyPath = errors.New("path is required")

// BatchResponse wraps batch results in input order.
type BatchResponse struct {
	Results []importer.BatchResult `json:"results"`
}

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []index.DocumentSummary `json:"documents"`
	Total     int                     `json:"total" example:"42"`
}

// TagsResponse lists tag usage counts.
type TagsResponse struct {
	Tags []index.TagCount `json:"tags"`
}
