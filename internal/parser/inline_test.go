package parser

import (
	"reflect"
	"testing"

	"github.com/starford/raido/internal/models"
)

func txt(s string) models.InlineNode { return models.TextNode{Text: s} }

func styled(s string, f models.Format) models.InlineNode { return models.TextNode{Text: s, Format: f} }

func tagRef(name string) models.InlineNode { return models.TagNode{TagName: name} }

func TestParseInline_Empty(t *testing.T) {
	got := ParseInline("")
	if got == nil || len(got) != 0 {
		t.Fatalf("ParseInline(\"\") = %#v, want empty non-nil slice", got)
	}
}

func TestParseInline_Spans(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []models.InlineNode
	}{
		{"plain", "Hello World", []models.InlineNode{txt("Hello World")}},
		{"bold and italic", "Hello **bold** and *italic* text", []models.InlineNode{
			txt("Hello "), styled("bold", models.FormatBold), txt(" and "), styled("italic", models.FormatItalic), txt(" text"),
		}},
		{"strike and code", "~~gone~~ `code`", []models.InlineNode{
			styled("gone", models.FormatStrikethrough), txt(" "), styled("code", models.FormatCode),
		}},
		{"adjacent spans", "*a***b**", []models.InlineNode{
			styled("a", models.FormatItalic), styled("b", models.FormatBold),
		}},
		{"unclosed bold", "**unclosed", []models.InlineNode{txt("**unclosed")}},
		{"unclosed code", "a `b", []models.InlineNode{txt("a `b")}},
		{"empty markers", "** and ``", []models.InlineNode{txt("** and ``")}},
		{"code wins over inner bold", "`**not bold**`", []models.InlineNode{
			styled("**not bold**", models.FormatCode),
		}},
		{"bold wins over inner italic", "**bold *inner* text**", []models.InlineNode{
			styled("bold *inner* text", models.FormatBold),
		}},
		{"earliest marker wins", "x *a* **b**", []models.InlineNode{
			txt("x "), styled("a", models.FormatItalic), txt(" "), styled("b", models.FormatBold),
		}},
		{"unicode text", "héllo *wörld* 日本", []models.InlineNode{
			txt("héllo "), styled("wörld", models.FormatItalic), txt(" 日本"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseInline(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ParseInline(%q)\n got %#v\nwant %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseInline_HashTags(t *testing.T) {
	cases := []struct {
		in   string
		want []models.InlineNode
	}{
		{"Learn #golang today", []models.InlineNode{txt("Learn "), tagRef("golang"), txt(" today")}},
		{"#日本語 と #tag_1!", []models.InlineNode{tagRef("日本語"), txt(" と "), tagRef("tag_1"), txt("!")}},
		{"#2024 plans", []models.InlineNode{tagRef("2024"), txt(" plans")}},
		{"# alone", []models.InlineNode{txt("# alone")}},
		{"#[multi word]", []models.InlineNode{txt("#[multi word]")}},
		{"**#bold**", []models.InlineNode{styled("#bold", models.FormatBold)}},
	}
	for _, tc := range cases {
		got := ParseInline(tc.in, WithTagFormat(TagFormatHash))
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseInline(%q)\n got %#v\nwant %#v", tc.in, got, tc.want)
		}
	}
}

func TestParseInline_BracketTags(t *testing.T) {
	cases := []struct {
		in   string
		want []models.InlineNode
	}{
		{"see #[multi word] and #plain", []models.InlineNode{txt("see "), tagRef("multi word"), txt(" and #plain")}},
		{"#[東京 旅行]", []models.InlineNode{tagRef("東京 旅行")}},
		{"#[] empty", []models.InlineNode{txt("#[] empty")}},
		{"#[unclosed", []models.InlineNode{txt("#[unclosed")}},
	}
	for _, tc := range cases {
		got := ParseInline(tc.in, WithTagFormat(TagFormatBracket))
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseInline(%q)\n got %#v\nwant %#v", tc.in, got, tc.want)
		}
	}
}

func TestParseTagFormat(t *testing.T) {
	for in, want := range map[string]TagFormat{"": TagFormatHash, "hash": TagFormatHash, "bracket": TagFormatBracket} {
		got, err := ParseTagFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseTagFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTagFormat("wiki"); err == nil {
		t.Error("expected error for unknown tag format")
	}
}
