package parser

import (
	"reflect"
	"testing"

	"github.com/starford/raido/internal/models"
)

func TestParseHeadingLine(t *testing.T) {
	cases := []struct {
		line string
		tag  models.HeadingTag
		text string
	}{
		{"# One", models.HeadingH1, "One"},
		{"## Two", models.HeadingH2, "Two"},
		{"### Three", models.HeadingH3, "Three"},
		{"#### Four", models.HeadingH3, "Four"},
		{"###### Six", models.HeadingH3, "Six"},
	}
	for _, tc := range cases {
		h, ok := ParseHeadingLine(tc.line)
		if !ok {
			t.Errorf("ParseHeadingLine(%q) did not match", tc.line)
			continue
		}
		if h.Tag != tc.tag {
			t.Errorf("ParseHeadingLine(%q).Tag = %q, want %q", tc.line, h.Tag, tc.tag)
		}
		if got := models.PlainText(h.Children); got != tc.text {
			t.Errorf("ParseHeadingLine(%q) text = %q, want %q", tc.line, got, tc.text)
		}
	}
}

func TestParseHeadingLine_NotHeadings(t *testing.T) {
	for _, line := range []string{"", "#", "##", "#NoSpace", "text # not", " # indented", "#\tTab"} {
		if _, ok := ParseHeadingLine(line); ok {
			t.Errorf("ParseHeadingLine(%q) matched, want no match", line)
		}
	}
}

func TestParseHeadingLine_InlineChildren(t *testing.T) {
	h, ok := ParseHeadingLine("## Hello **World** #intro")
	if !ok {
		t.Fatal("expected heading")
	}
	want := []models.InlineNode{txt("Hello "), styled("World", models.FormatBold), txt(" "), tagRef("intro")}
	if !reflect.DeepEqual(h.Children, want) {
		t.Errorf("children = %#v", h.Children)
	}
}

func TestParseListItemLine(t *testing.T) {
	yes, no := true, false
	cases := []struct {
		line string
		want ListItemLine
	}{
		{"- item", ListItemLine{Type: models.ListBullet, Text: "item"}},
		{"* star", ListItemLine{Type: models.ListBullet, Text: "star"}},
		{"1. first", ListItemLine{Type: models.ListNumber, Text: "first"}},
		{"42. answer", ListItemLine{Type: models.ListNumber, Text: "answer"}},
		{"- [ ] todo", ListItemLine{Type: models.ListCheck, Text: "todo", Checked: &no}},
		{"- [x] done", ListItemLine{Type: models.ListCheck, Text: "done", Checked: &yes}},
		{"- [X] DONE", ListItemLine{Type: models.ListCheck, Text: "DONE", Checked: &yes}},
	}
	for _, tc := range cases {
		got, ok := ParseListItemLine(tc.line)
		if !ok {
			t.Errorf("ParseListItemLine(%q) did not match", tc.line)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseListItemLine(%q) = %+v, want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseListItemLine_NoMatch(t *testing.T) {
	for _, line := range []string{"", "-", "-item", "*emphasis*", "**bold**", "1.no space", ". x", "a. x", "  - indented", "plain"} {
		if got, ok := ParseListItemLine(line); ok {
			t.Errorf("ParseListItemLine(%q) = %+v, want no match", line, got)
		}
	}
}

func TestParseParagraph(t *testing.T) {
	p := ParseParagraph("")
	if p.Children == nil || len(p.Children) != 0 {
		t.Errorf("empty paragraph children = %#v, want empty slice", p.Children)
	}
	p = ParseParagraph("Some *text*")
	want := []models.InlineNode{txt("Some "), styled("text", models.FormatItalic)}
	if !reflect.DeepEqual(p.Children, want) {
		t.Errorf("children = %#v", p.Children)
	}
}
