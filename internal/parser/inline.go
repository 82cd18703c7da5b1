package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/raido/internal/models"
)

// spanMarkers are tried in order at every cursor position. The first marker
// that opens and closes a non-empty span wins.
var spanMarkers = []struct {
	delim  string
	format models.Format
}{
	{"**", models.FormatBold},
	{"*", models.FormatItalic},
	{"~~", models.FormatStrikethrough},
	{"`", models.FormatCode},
}

// ParseInline converts one line of text into inline nodes. Spans never nest:
// once a span closes, scanning resumes right after its closing marker.
func ParseInline(text string, opts ...Option) []models.InlineNode {
	return parseInline(text, newOptions(opts))
}

func parseInline(text string, o options) []models.InlineNode {
	s := &inlineScanner{src: text, tagFormat: o.tagFormat, nodes: []models.InlineNode{}}
	for s.pos < len(s.src) {
		if s.span() || s.tag() {
			continue
		}
		_, size := utf8.DecodeRuneInString(s.src[s.pos:])
		s.plain.WriteString(s.src[s.pos : s.pos+size])
		s.pos += size
	}
	s.flush()
	return s.nodes
}

type inlineScanner struct {
	src       string
	pos       int
	tagFormat TagFormat
	plain     strings.Builder
	nodes     []models.InlineNode
}

// span consumes a formatted span starting at the cursor.
func (s *inlineScanner) span() bool {
	rest := s.src[s.pos:]
	for _, m := range spanMarkers {
		if !strings.HasPrefix(rest, m.delim) {
			continue
		}
		body := rest[len(m.delim):]
		if body == "" {
			continue
		}
		_, first := utf8.DecodeRuneInString(body)
		end := strings.Index(body[first:], m.delim)
		if end < 0 {
			continue
		}
		content := body[:first+end]
		s.emit(models.TextNode{Text: content, Format: m.format})
		s.pos += len(m.delim) + len(content) + len(m.delim)
		return true
	}
	return false
}

// tag consumes a tag reference starting at the cursor.
func (s *inlineScanner) tag() bool {
	rest := s.src[s.pos:]
	if !strings.HasPrefix(rest, "#") {
		return false
	}

	if s.tagFormat == TagFormatBracket {
		if !strings.HasPrefix(rest, "#[") {
			return false
		}
		end := strings.IndexByte(rest[2:], ']')
		if end <= 0 {
			return false
		}
		s.emit(models.TagNode{TagName: rest[2 : 2+end]})
		s.pos += 2 + end + 1
		return true
	}

	n := wordPrefixLen(rest[1:])
	if n == 0 {
		return false
	}
	s.emit(models.TagNode{TagName: rest[1 : 1+n]})
	s.pos += 1 + n
	return true
}

func (s *inlineScanner) emit(node models.InlineNode) {
	s.flush()
	s.nodes = append(s.nodes, node)
}

func (s *inlineScanner) flush() {
	if s.plain.Len() == 0 {
		return
	}
	s.nodes = append(s.nodes, models.TextNode{Text: s.plain.String()})
	s.plain.Reset()
}

// wordPrefixLen returns the byte length of the leading run of tag characters:
// letters of any script, combining marks, numbers and underscore.
func wordPrefixLen(s string) int {
	for i, r := range s {
		if !isTagRune(r) {
			return i
		}
	}
	return len(s)
}

func isTagRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r)
}
