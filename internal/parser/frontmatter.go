package parser

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/raido/internal/models"
)

const frontMatterDelim = "---"

// ParseFrontMatter splits a leading "---" delimited header from content.
// It returns nil and content unchanged when the first line is not "---" or
// when the header is never closed. An empty header yields an empty, non-nil
// mapping. The body is everything after the closing delimiter line with one
// leading newline trimmed.
func ParseFrontMatter(content string) (*models.FrontMatter, string) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || lines[0] != frontMatterDelim {
		return nil, content
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontMatterDelim {
			closing = i
			break
		}
	}
	if closing < 0 {
		return nil, content
	}

	header := lines[1:closing]
	body := strings.Join(lines[closing+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	fm, ok := decodeYAMLHeader(strings.Join(header, "\n"))
	if !ok {
		fm = scanHeader(header)
	}
	return fm, body
}

// decodeYAMLHeader decodes the header as a YAML mapping, keeping key order.
// It reports false when the header is not valid YAML, not a mapping, or when
// YAML would read part of a value as a trailing comment ("tags: #a").
func decodeYAMLHeader(header string) (*models.FrontMatter, bool) {
	fm := models.NewFrontMatter()
	if strings.TrimSpace(header) == "" {
		return fm, true
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fm, true
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, false
	}
	if hasLineComment(root) || hasTrailingHash(strings.Split(header, "\n")) {
		return nil, false
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		fm.Set(key, yamlValue(root.Content[i+1]))
	}
	return fm, true
}

func hasLineComment(n *yaml.Node) bool {
	if n.LineComment != "" {
		return true
	}
	for _, c := range n.Content {
		if hasLineComment(c) {
			return true
		}
	}
	return false
}

// hasTrailingHash reports a key or list item line whose unquoted value
// contains a '#' that YAML would read as a comment.
func hasTrailingHash(lines []string) bool {
	for _, line := range lines {
		t := strings.TrimLeft(line, " \t")
		if t == "" || t[0] == '#' {
			continue
		}
		var value string
		if rest, ok := strings.CutPrefix(t, "- "); ok {
			value = rest
		} else if _, rest, ok := strings.Cut(t, ":"); ok {
			value = rest
		} else {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" || value[0] == '"' || value[0] == '\'' {
			continue
		}
		if value[0] == '#' || strings.Contains(value, " #") || strings.Contains(value, "\t#") {
			return true
		}
	}
	return false
}

func yamlValue(n *yaml.Node) models.FrontMatterValue {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return models.ScalarValue("")
		}
		return models.ScalarValue(n.Value)
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, yamlValue(item).String())
		}
		return models.ListValue(items...)
	default:
		out, err := yaml.Marshal(n)
		if err != nil {
			return models.ScalarValue("")
		}
		return models.ScalarValue(strings.TrimSpace(string(out)))
	}
}

// scanHeader is the lenient line grammar used when the header is not YAML:
// "key: value" lines, and a value-less "key:" followed by "- item" lines for
// lists. Lines without a colon are skipped.
func scanHeader(lines []string) *models.FrontMatter {
	fm := models.NewFrontMatter()
	for i := 0; i < len(lines); i++ {
		key, value, ok := strings.Cut(lines[i], ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)
		if value != "" {
			fm.Set(key, models.ScalarValue(unquote(value)))
			continue
		}

		var items []string
		for i+1 < len(lines) {
			item, isItem := headerListItem(lines[i+1])
			if !isItem {
				break
			}
			items = append(items, item)
			i++
		}
		if items == nil {
			fm.Set(key, models.ScalarValue(""))
			continue
		}
		fm.Set(key, models.ListValue(items...))
	}
	return fm
}

func headerListItem(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "- ") {
		return "", false
	}
	return unquote(strings.TrimSpace(trimmed[2:])), true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
