package filetype

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"document.md", Markdown},
		{"notes.markdown", Markdown},
		{"README.TXT", Text},
		{"report.pdf", PDF},
		{"deck/slides.DOCX", DOCX},
		{"page.html", HTML},
		{"page.htm", HTML},
		{"data.csv", CSV},
		{"photo.jpg", Unknown},
		{"noextension", Unknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestStrategy(t *testing.T) {
	if Markdown.Strategy() != StrategyTextSplit {
		t.Errorf("markdown should use the text-split strategy")
	}
	if Text.Strategy() != StrategyTextSplit {
		t.Errorf("text should use the text-split strategy")
	}
	for _, k := range []Kind{PDF, DOCX, HTML, CSV} {
		if k.Strategy() != StrategyContextAware {
			t.Errorf("%v should use the context-aware strategy", k)
		}
	}
	if Unknown.Strategy() != StrategyNone {
		t.Errorf("unknown kind must not map to a strategy")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("a.pdf") {
		t.Errorf("expected .pdf to be supported")
	}
	if IsSupportedExtension("a.jpg") {
		t.Errorf("expected .jpg to be unsupported")
	}
}
