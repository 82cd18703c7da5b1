// Package models defines the rich-document schema produced by the Markdown
// importer and consumed by the editor, the index and the export pipeline.
package models

import (
	"strings"
)

// Format is a bitmask of inline text styles. Bits combine freely.
type Format int

// Inline format bits.
const (
	FormatBold          Format = 1
	FormatItalic        Format = 2
	FormatStrikethrough Format = 4
	FormatCode          Format = 16
)

// Has reports whether every bit of flag is set on f.
func (f Format) Has(flag Format) bool {
	return f&flag == flag
}

// HeadingTag is the HTML-style heading level of a heading block.
type HeadingTag string

// Heading tags. Deeper Markdown headings collapse into HeadingH3.
const (
	HeadingH1 HeadingTag = "h1"
	HeadingH2 HeadingTag = "h2"
	HeadingH3 HeadingTag = "h3"
)

// HeadingTagForLevel maps a count of leading '#' characters to a tag.
func HeadingTagForLevel(level int) HeadingTag {
	switch {
	case level <= 1:
		return HeadingH1
	case level == 2:
		return HeadingH2
	default:
		return HeadingH3
	}
}

// ListType identifies the marker syntax shared by the items of a list.
type ListType string

// List types.
const (
	ListBullet ListType = "bullet"
	ListNumber ListType = "number"
	ListCheck  ListType = "check"
)

// InlineNode is a span-level node. The set of implementations is closed:
// TextNode and TagNode.
type InlineNode interface {
	inlineNode()
}

// TextNode is a run of text carrying a format bitmask.
type TextNode struct {
	Text   string
	Format Format
}

// TagNode is a #topic reference extracted from text.
type TagNode struct {
	TagName string
}

func (TextNode) inlineNode() {}
func (TagNode) inlineNode()  {}

// BlockNode is a top-level structural node of a document. The set of
// implementations is closed: HeadingNode, ParagraphNode, ListNode and
// HorizontalRuleNode.
type BlockNode interface {
	blockNode()
}

// HeadingNode is a heading block.
type HeadingNode struct {
	Tag      HeadingTag
	Children []InlineNode
}

// ParagraphNode is a paragraph block. Blank source lines produce paragraphs
// with no children.
type ParagraphNode struct {
	Children []InlineNode
}

// ListNode groups consecutive list items of one ListType.
type ListNode struct {
	ListType ListType
	Children []ListItemNode
}

// ListItemNode is one item of a ListNode. Checked is set only for check lists.
type ListItemNode struct {
	Children []InlineNode
	Checked  *bool
}

// HorizontalRuleNode is a content-free separator.
type HorizontalRuleNode struct{}

func (HeadingNode) blockNode()        {}
func (ParagraphNode) blockNode()      {}
func (ListNode) blockNode()           {}
func (HorizontalRuleNode) blockNode() {}

// RootNode is the root of a document tree.
type RootNode struct {
	Children []BlockNode
}

// Document is the unit persisted by storage and loaded by the editor.
type Document struct {
	Root RootNode `json:"root"`
}

// FirstHeading returns the first heading block with the given tag.
func (d Document) FirstHeading(tag HeadingTag) (HeadingNode, bool) {
	for _, block := range d.Root.Children {
		if h, ok := block.(HeadingNode); ok && h.Tag == tag {
			return h, true
		}
	}
	return HeadingNode{}, false
}

// Tags returns the distinct tag names referenced by the document, in order of
// first appearance.
func (d Document) Tags() []string {
	seen := make(map[string]struct{})
	out := []string{}
	collect := func(children []InlineNode) {
		for _, child := range children {
			tag, ok := child.(TagNode)
			if !ok {
				continue
			}
			if _, dup := seen[tag.TagName]; dup {
				continue
			}
			seen[tag.TagName] = struct{}{}
			out = append(out, tag.TagName)
		}
	}
	for _, block := range d.Root.Children {
		switch b := block.(type) {
		case HeadingNode:
			collect(b.Children)
		case ParagraphNode:
			collect(b.Children)
		case ListNode:
			for _, item := range b.Children {
				collect(item.Children)
			}
		case HorizontalRuleNode:
		}
	}
	return out
}

// PlainText returns the text content of inline children. Tags render as
// "#name".
func PlainText(children []InlineNode) string {
	var b strings.Builder
	for _, child := range children {
		switch n := child.(type) {
		case TextNode:
			b.WriteString(n.Text)
		case TagNode:
			b.WriteByte('#')
			b.WriteString(n.TagName)
		}
	}
	return b.String()
}
