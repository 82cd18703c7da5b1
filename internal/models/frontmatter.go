package models

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// FrontMatterValue is either a scalar string or a list of strings.
type FrontMatterValue struct {
	scalar string
	items  []string
	isList bool
}

// ScalarValue returns a scalar front matter value.
func ScalarValue(s string) FrontMatterValue {
	return FrontMatterValue{scalar: s}
}

// ListValue returns a list front matter value.
func ListValue(items ...string) FrontMatterValue {
	return FrontMatterValue{items: append([]string{}, items...), isList: true}
}

// IsList reports whether the value is a list.
func (v FrontMatterValue) IsList() bool { return v.isList }

// String returns the scalar text. Lists return "".
func (v FrontMatterValue) String() string { return v.scalar }

// Items returns a copy of the list items. Scalars return nil.
func (v FrontMatterValue) Items() []string {
	if !v.isList {
		return nil
	}
	return append([]string{}, v.items...)
}

// MarshalJSON encodes scalars as JSON strings and lists as string arrays.
func (v FrontMatterValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(nonNil(v.items))
	}
	return json.Marshal(v.scalar)
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *FrontMatterValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = ScalarValue(s)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("models: front matter value must be a string or string array: %w", err)
	}
	*v = ListValue(items...)
	return nil
}

// FrontMatter is the ordered key/value header of a Markdown document.
// Keys keep the order in which they appear in the source.
type FrontMatter struct {
	entries *orderedmap.OrderedMap[string, FrontMatterValue]
}

// NewFrontMatter returns an empty front matter mapping.
func NewFrontMatter() *FrontMatter {
	return &FrontMatter{entries: orderedmap.New[string, FrontMatterValue]()}
}

// Set stores value under key. Re-setting a key keeps its original position.
func (f *FrontMatter) Set(key string, value FrontMatterValue) {
	f.entries.Set(key, value)
}

// Get returns the value stored under key.
func (f *FrontMatter) Get(key string) (FrontMatterValue, bool) {
	if f == nil || f.entries == nil {
		return FrontMatterValue{}, false
	}
	return f.entries.Get(key)
}

// Scalar returns the scalar stored under key. Lists do not match.
func (f *FrontMatter) Scalar(key string) (string, bool) {
	v, ok := f.Get(key)
	if !ok || v.IsList() {
		return "", false
	}
	return v.String(), true
}

// Len returns the number of keys.
func (f *FrontMatter) Len() int {
	if f == nil || f.entries == nil {
		return 0
	}
	return f.entries.Len()
}

// Keys returns the keys in source order.
func (f *FrontMatter) Keys() []string {
	keys := make([]string, 0, f.Len())
	if f.Len() == 0 {
		return keys
	}
	for pair := f.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// MarshalJSON encodes the mapping as a JSON object in key order.
func (f *FrontMatter) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	if f.entries == nil {
		return []byte("{}"), nil
	}
	return f.entries.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (f *FrontMatter) UnmarshalJSON(data []byte) error {
	f.entries = orderedmap.New[string, FrontMatterValue]()
	return f.entries.UnmarshalJSON(data)
}
