package models

import (
	"encoding/json"
	"fmt"
)

// Node type discriminators used on the wire.
const (
	typeRoot           = "root"
	typeText           = "text"
	typeTag            = "tag"
	typeHeading        = "heading"
	typeParagraph      = "paragraph"
	typeList           = "list"
	typeListItem       = "listitem"
	typeHorizontalRule = "horizontalrule"
)

// wireNode is the union of every field any node carries on the wire.
type wireNode struct {
	Type     string            `json:"type"`
	Text     string            `json:"text"`
	Format   Format            `json:"format"`
	TagName  string            `json:"tagName"`
	Tag      HeadingTag        `json:"tag"`
	ListType ListType          `json:"listType"`
	Checked  *bool             `json:"checked"`
	Children []json.RawMessage `json:"children"`
}

// MarshalJSON encodes the node as {"type":"text","text":…,"format":…}.
func (n TextNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Text   string `json:"text"`
		Format Format `json:"format"`
	}{typeText, n.Text, n.Format})
}

// MarshalJSON encodes the node as {"type":"tag","tagName":…}.
func (n TagNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		TagName string `json:"tagName"`
	}{typeTag, n.TagName})
}

// MarshalJSON encodes the heading with its tag and inline children.
func (n HeadingNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string       `json:"type"`
		Tag      HeadingTag   `json:"tag"`
		Children []InlineNode `json:"children"`
	}{typeHeading, n.Tag, nonNil(n.Children)})
}

// MarshalJSON encodes the paragraph with its inline children.
func (n ParagraphNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string       `json:"type"`
		Children []InlineNode `json:"children"`
	}{typeParagraph, nonNil(n.Children)})
}

// MarshalJSON encodes the list with its type and items.
func (n ListNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string         `json:"type"`
		ListType ListType       `json:"listType"`
		Children []ListItemNode `json:"children"`
	}{typeList, n.ListType, nonNil(n.Children)})
}

// MarshalJSON encodes the item. "checked" is omitted unless set.
func (n ListItemNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string       `json:"type"`
		Children []InlineNode `json:"children"`
		Checked  *bool        `json:"checked,omitempty"`
	}{typeListItem, nonNil(n.Children), n.Checked})
}

// MarshalJSON encodes the rule as {"type":"horizontalrule"}.
func (HorizontalRuleNode) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"horizontalrule"}`), nil
}

// MarshalJSON encodes the root with its block children.
func (n RootNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string      `json:"type"`
		Children []BlockNode `json:"children"`
	}{typeRoot, nonNil(n.Children)})
}

// UnmarshalJSON decodes a root node and every descendant into the closed
// node types. Unknown node types are rejected.
func (n *RootNode) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type != typeRoot {
		return fmt.Errorf("models: expected %q node, got %q", typeRoot, w.Type)
	}
	blocks := make([]BlockNode, 0, len(w.Children))
	for _, raw := range w.Children {
		block, err := decodeBlock(raw)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
	}
	n.Children = blocks
	return nil
}

func decodeBlock(raw json.RawMessage) (BlockNode, error) {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	switch w.Type {
	case typeHeading:
		if w.Tag != HeadingH1 && w.Tag != HeadingH2 && w.Tag != HeadingH3 {
			return nil, fmt.Errorf("models: invalid heading tag %q", w.Tag)
		}
		children, err := decodeInlines(w.Children)
		if err != nil {
			return nil, err
		}
		return HeadingNode{Tag: w.Tag, Children: children}, nil
	case typeParagraph:
		children, err := decodeInlines(w.Children)
		if err != nil {
			return nil, err
		}
		return ParagraphNode{Children: children}, nil
	case typeList:
		if w.ListType != ListBullet && w.ListType != ListNumber && w.ListType != ListCheck {
			return nil, fmt.Errorf("models: invalid list type %q", w.ListType)
		}
		items := make([]ListItemNode, 0, len(w.Children))
		for _, rawItem := range w.Children {
			item, err := decodeListItem(rawItem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return ListNode{ListType: w.ListType, Children: items}, nil
	case typeHorizontalRule:
		return HorizontalRuleNode{}, nil
	default:
		return nil, fmt.Errorf("models: unknown block node type %q", w.Type)
	}
}

func decodeListItem(raw json.RawMessage) (ListItemNode, error) {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return ListItemNode{}, err
	}
	if w.Type != typeListItem {
		return ListItemNode{}, fmt.Errorf("models: expected %q node, got %q", typeListItem, w.Type)
	}
	children, err := decodeInlines(w.Children)
	if err != nil {
		return ListItemNode{}, err
	}
	return ListItemNode{Children: children, Checked: w.Checked}, nil
}

func decodeInlines(raws []json.RawMessage) ([]InlineNode, error) {
	out := make([]InlineNode, 0, len(raws))
	for _, raw := range raws {
		var w wireNode
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		switch w.Type {
		case typeText:
			out = append(out, TextNode{Text: w.Text, Format: w.Format})
		case typeTag:
			out = append(out, TagNode{TagName: w.TagName})
		default:
			return nil, fmt.Errorf("models: unknown inline node type %q", w.Type)
		}
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
