package convert

import (
	"strings"
	"testing"
)

func TestParseElementsKinds(t *testing.T) {
	src := []byte(`# Title

Intro paragraph with some prose.

| a | b |
| --- | --- |
| 1 | 2 |

![diagram](figures/diagram.png)

Closing paragraph.
`)
	doc := ParseElements(src, "doc.md")

	wantKinds := []ElementKind{ElementText, ElementText, ElementTable, ElementImage, ElementText}
	if len(doc.Elements) != len(wantKinds) {
		t.Fatalf("expected %d elements, got %d: %#v", len(wantKinds), len(doc.Elements), doc.Elements)
	}
	for i, want := range wantKinds {
		if doc.Elements[i].Kind != want {
			t.Errorf("element %d: kind %s, want %s", i, doc.Elements[i].Kind, want)
		}
	}
	if doc.Elements[0].Text != "# Title" {
		t.Errorf("heading not preserved: %q", doc.Elements[0].Text)
	}
	if !strings.Contains(doc.Elements[2].Text, "| 1 | 2 |") {
		t.Errorf("table row lost: %q", doc.Elements[2].Text)
	}
	if doc.Elements[3].Text != "![diagram](figures/diagram.png)" {
		t.Errorf("image reference mangled: %q", doc.Elements[3].Text)
	}
}

func TestParseElementsMultilineParagraph(t *testing.T) {
	src := []byte("line one\nline two\n")
	doc := ParseElements(src, "doc.md")
	if len(doc.Elements) != 1 {
		t.Fatalf("expected 1 element, got %#v", doc.Elements)
	}
	if doc.Elements[0].Text != "line one\nline two" {
		t.Errorf("paragraph lines mangled: %q", doc.Elements[0].Text)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	doc := &Document{
		Source: "doc.pdf",
		Elements: []Element{
			{Kind: ElementText, Text: "First block of prose."},
			{Kind: ElementTable, Text: markdownTable([]string{"h1", "h2"}, [][]string{{"a", "b"}})},
			{Kind: ElementImage, Text: imageRef("chart", "chart.png")},
			{Kind: ElementText, Text: "Last block."},
		},
	}

	parsed := ParseElements([]byte(Render(doc)), doc.Source)

	if len(parsed.Elements) != len(doc.Elements) {
		t.Fatalf("expected %d elements back, got %d: %#v", len(doc.Elements), len(parsed.Elements), parsed.Elements)
	}
	for i := range doc.Elements {
		if parsed.Elements[i].Kind != doc.Elements[i].Kind {
			t.Errorf("element %d: kind %s, want %s", i, parsed.Elements[i].Kind, doc.Elements[i].Kind)
		}
		if parsed.Elements[i].Text != doc.Elements[i].Text {
			t.Errorf("element %d: %q, want %q", i, parsed.Elements[i].Text, doc.Elements[i].Text)
		}
	}
}

func TestMarkdownTableEscapesPipes(t *testing.T) {
	out := markdownTable([]string{"name"}, [][]string{{"a|b"}})
	if !strings.Contains(out, `a\|b`) {
		t.Errorf("cell pipe not escaped: %q", out)
	}
}
