package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/starford/raido/internal/models"
)

func TestParseDocument_PlainText(t *testing.T) {
	doc := ParseDocument("Hello World")
	want := []models.BlockNode{models.ParagraphNode{Children: []models.InlineNode{txt("Hello World")}}}
	if !reflect.DeepEqual(doc.Root.Children, want) {
		t.Errorf("children = %#v", doc.Root.Children)
	}
}

func TestParseDocument_BulletList(t *testing.T) {
	doc := ParseDocument("- Item 1\n- Item 2\n- Item 3")
	if len(doc.Root.Children) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Root.Children))
	}
	list, ok := doc.Root.Children[0].(models.ListNode)
	if !ok {
		t.Fatalf("block is %T, want ListNode", doc.Root.Children[0])
	}
	if list.ListType != models.ListBullet {
		t.Errorf("listType = %q", list.ListType)
	}
	if len(list.Children) != 3 {
		t.Fatalf("items = %d, want 3", len(list.Children))
	}
	for i, item := range list.Children {
		want := "Item " + string(rune('1'+i))
		if got := models.PlainText(item.Children); got != want {
			t.Errorf("item %d = %q, want %q", i, got, want)
		}
		if item.Checked != nil {
			t.Errorf("bullet item %d has checked set", i)
		}
	}
}

func TestParseDocument_CheckList(t *testing.T) {
	doc := ParseDocument("- [ ] Todo\n- [x] Done\n- [X] Also")
	if len(doc.Root.Children) != 1 {
		t.Fatalf("blocks = %d, want 1", len(doc.Root.Children))
	}
	list := doc.Root.Children[0].(models.ListNode)
	if list.ListType != models.ListCheck {
		t.Fatalf("listType = %q", list.ListType)
	}
	wantChecked := []bool{false, true, true}
	for i, item := range list.Children {
		if item.Checked == nil || *item.Checked != wantChecked[i] {
			t.Errorf("item %d checked = %v, want %v", i, item.Checked, wantChecked[i])
		}
	}
}

func TestParseDocument_MixedBlocks(t *testing.T) {
	src := strings.Join([]string{
		"# Title",
		"",
		"- a",
		"* b",
		"1. one",
		"2. two",
		"Text",
		"- [ ] c",
		"- d",
		"#### Deep",
	}, "\n")
	doc := ParseDocument(src)

	type shape struct {
		kind  string
		extra string
		count int
	}
	var got []shape
	for _, b := range doc.Root.Children {
		switch n := b.(type) {
		case models.HeadingNode:
			got = append(got, shape{"heading", string(n.Tag), len(n.Children)})
		case models.ParagraphNode:
			got = append(got, shape{"paragraph", models.PlainText(n.Children), len(n.Children)})
		case models.ListNode:
			got = append(got, shape{"list", string(n.ListType), len(n.Children)})
		default:
			t.Fatalf("unexpected block %T", b)
		}
	}
	want := []shape{
		{"heading", "h1", 1},
		{"paragraph", "", 0},
		{"list", "bullet", 2},
		{"list", "number", 2},
		{"paragraph", "Text", 1},
		{"list", "check", 1},
		{"list", "bullet", 1},
		{"heading", "h3", 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blocks\n got %+v\nwant %+v", got, want)
	}
}

func TestParseDocument_BlankLinesPreserved(t *testing.T) {
	doc := ParseDocument("a\n\n\nb\n")
	if len(doc.Root.Children) != 5 {
		t.Fatalf("blocks = %d, want 5", len(doc.Root.Children))
	}
	for i, b := range doc.Root.Children {
		if _, ok := b.(models.ParagraphNode); !ok {
			t.Errorf("block %d is %T, want paragraph", i, b)
		}
	}
}

func TestParseDocument_BlankLineSplitsLists(t *testing.T) {
	doc := ParseDocument("- a\n\n- b")
	if len(doc.Root.Children) != 3 {
		t.Fatalf("blocks = %d, want 3", len(doc.Root.Children))
	}
	if _, ok := doc.Root.Children[1].(models.ParagraphNode); !ok {
		t.Errorf("middle block is %T, want paragraph", doc.Root.Children[1])
	}
}

func TestParseDocument_HeadingCap(t *testing.T) {
	for n := 1; n <= 8; n++ {
		doc := ParseDocument(strings.Repeat("#", n) + " Heading")
		h, ok := doc.Root.Children[0].(models.HeadingNode)
		if !ok {
			t.Fatalf("n=%d: block is %T", n, doc.Root.Children[0])
		}
		want := models.HeadingTagForLevel(n)
		if h.Tag != want {
			t.Errorf("n=%d: tag = %q, want %q", n, h.Tag, want)
		}
	}
}

func TestParseDocument_TagFormatOption(t *testing.T) {
	doc := ParseDocument("- #[big idea] #small", WithTagFormat(TagFormatBracket))
	list := doc.Root.Children[0].(models.ListNode)
	want := []models.InlineNode{tagRef("big idea"), txt(" #small")}
	if !reflect.DeepEqual(list.Children[0].Children, want) {
		t.Errorf("children = %#v", list.Children[0].Children)
	}
}
