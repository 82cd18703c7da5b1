package parser

import (
	"strings"

	"github.com/starford/raido/internal/models"
)

// ListItemLine is a classified list item line.
type ListItemLine struct {
	Type    models.ListType
	Text    string
	Checked *bool
}

// ParseHeadingLine parses "#… text": one or more '#', exactly one space,
// then the heading text. Four or more '#' produce an h3.
func ParseHeadingLine(line string, opts ...Option) (models.HeadingNode, bool) {
	return parseHeadingLine(line, newOptions(opts))
}

func parseHeadingLine(line string, o options) (models.HeadingNode, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level >= len(line) || line[level] != ' ' {
		return models.HeadingNode{}, false
	}
	return models.HeadingNode{
		Tag:      models.HeadingTagForLevel(level),
		Children: parseInline(line[level+1:], o),
	}, true
}

// checkMarkers map check list prefixes to their state.
var checkMarkers = []struct {
	prefix  string
	checked bool
}{
	{"- [ ] ", false},
	{"- [x] ", true},
	{"- [X] ", true},
}

// ParseListItemLine classifies "- t" and "* t" as bullets, "N. t" as numbered
// items and "- [ ] t" / "- [x] t" as check items.
func ParseListItemLine(line string) (ListItemLine, bool) {
	for _, m := range checkMarkers {
		if strings.HasPrefix(line, m.prefix) {
			checked := m.checked
			return ListItemLine{Type: models.ListCheck, Text: line[len(m.prefix):], Checked: &checked}, true
		}
	}
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
		return ListItemLine{Type: models.ListBullet, Text: line[2:]}, true
	}

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && strings.HasPrefix(line[digits:], ". ") {
		return ListItemLine{Type: models.ListNumber, Text: line[digits+2:]}, true
	}
	return ListItemLine{}, false
}

// ParseParagraph wraps the inline content of line in a paragraph. It always
// succeeds; an empty line yields a paragraph without children.
func ParseParagraph(line string, opts ...Option) models.ParagraphNode {
	return models.ParagraphNode{Children: parseInline(line, newOptions(opts))}
}
