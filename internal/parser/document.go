package parser

import (
	"strings"

	"github.com/starford/raido/internal/models"
)

// assembly is the fold state: finished blocks plus the list still accepting
// items, if any.
type assembly struct {
	blocks []models.BlockNode
	open   *models.ListNode
}

// ParseDocument assembles a document from Markdown, one block per line except
// for runs of list items of the same type, which fold into a single list.
// Blank lines become empty paragraphs.
func ParseDocument(markdown string, opts ...Option) models.Document {
	o := newOptions(opts)
	state := assembly{blocks: []models.BlockNode{}}
	for _, line := range strings.Split(markdown, "\n") {
		state = state.step(line, o)
	}
	state = state.closeList()
	return models.Document{Root: models.RootNode{Children: state.blocks}}
}

func (a assembly) step(line string, o options) assembly {
	if heading, ok := parseHeadingLine(line, o); ok {
		return a.closeList().push(heading)
	}

	if item, ok := ParseListItemLine(line); ok {
		node := models.ListItemNode{Children: parseInline(item.Text, o), Checked: item.Checked}
		if a.open != nil && a.open.ListType == item.Type {
			return a.appendItem(node)
		}
		next := a.closeList()
		next.open = &models.ListNode{ListType: item.Type, Children: []models.ListItemNode{node}}
		return next
	}

	return a.closeList().push(models.ParagraphNode{Children: parseInline(line, o)})
}

func (a assembly) push(block models.BlockNode) assembly {
	return assembly{blocks: append(a.blocks, block), open: a.open}
}

func (a assembly) appendItem(item models.ListItemNode) assembly {
	list := *a.open
	list.Children = append(list.Children, item)
	return assembly{blocks: a.blocks, open: &list}
}

func (a assembly) closeList() assembly {
	if a.open == nil {
		return a
	}
	return assembly{blocks: append(a.blocks, *a.open)}
}
