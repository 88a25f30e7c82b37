package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHTMLConverter(t *testing.T) {
	src := `<html><head><title>Ignored</title><style>p{}</style></head><body>
<h1>Report</h1>
<p>Opening paragraph.</p>
<table><tr><th>k</th><th>v</th></tr><tr><td>a</td><td>1</td></tr></table>
<img src="fig.png" alt="figure one">
<p>Closing paragraph.</p>
</body></html>`

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := (&HTMLConverter{}).Convert(path)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	wantKinds := []ElementKind{ElementText, ElementText, ElementTable, ElementImage, ElementText}
	if len(doc.Elements) != len(wantKinds) {
		t.Fatalf("expected %d elements, got %d: %#v", len(wantKinds), len(doc.Elements), doc.Elements)
	}
	for i, want := range wantKinds {
		if doc.Elements[i].Kind != want {
			t.Errorf("element %d: kind %s, want %s", i, doc.Elements[i].Kind, want)
		}
	}
	if doc.Elements[0].Text != "# Report" {
		t.Errorf("heading: %q", doc.Elements[0].Text)
	}
	if !strings.Contains(doc.Elements[2].Text, "| a | 1 |") {
		t.Errorf("table row: %q", doc.Elements[2].Text)
	}
	if doc.Elements[3].Text != "![figure one](fig.png)" {
		t.Errorf("image: %q", doc.Elements[3].Text)
	}
	if strings.Contains(doc.Elements[1].Text, "Ignored") {
		t.Errorf("head content leaked into body text: %q", doc.Elements[1].Text)
	}
}

func TestHTMLConverterMissingFile(t *testing.T) {
	if _, err := (&HTMLConverter{}).Convert(filepath.Join(t.TempDir(), "nope.html")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
