package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rgardner/docchunk/internal/convert"
	"github.com/rgardner/docchunk/internal/filetype"
)

// fakeConverter returns canned structural elements per path.
type fakeConverter struct {
	docs  map[string]*convert.Document
	calls int
}

func (f *fakeConverter) Convert(path string) (*convert.Document, error) {
	f.calls++
	doc, ok := f.docs[path]
	if !ok {
		return nil, fmt.Errorf("unreadable file %s", path)
	}
	return doc, nil
}

func newFakeChunker(t *testing.T, fake *fakeConverter, paths []string, chunkWordCount int) *ContextAwareChunker {
	t.Helper()
	c, err := NewContextAware(paths, t.TempDir(), fakeCounter, chunkWordCount)
	if err != nil {
		t.Fatalf("NewContextAware: %v", err)
	}
	c.converterFor = func(filetype.Kind) (convert.Converter, error) {
		return fake, nil
	}
	return c
}

func TestContextAwareEmptyInput(t *testing.T) {
	fake := &fakeConverter{}
	c := newFakeChunker(t, fake, nil, 1024)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
	if fake.calls != 0 {
		t.Fatalf("converter invoked %d times for empty input", fake.calls)
	}
}

func TestContextAwareMergesSmallElements(t *testing.T) {
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "one two three"},
			{Kind: convert.ElementText, Text: "four five"},
		}},
	}}
	// 10 words -> 13-token budget; both elements fit together.
	c := newFakeChunker(t, fake, []string{"a.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	want := []string{"one two three\n\nfour five"}
	if len(chunks) != 1 || chunks[0] != want[0] {
		t.Fatalf("expected %q, got %q", want, chunks)
	}
}

func TestContextAwareFlushesOnBudget(t *testing.T) {
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "w1 w2 w3 w4 w5 w6 w7 w8"},
			{Kind: convert.ElementText, Text: "x1 x2 x3 x4 x5 x6 x7 x8"},
		}},
	}}
	// 13-token budget; 8 + 8 tokens cannot share a chunk.
	c := newFakeChunker(t, fake, []string{"a.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %q", chunks)
	}
	if strings.Contains(chunks[0], "x1") {
		t.Errorf("second element leaked into first chunk: %q", chunks[0])
	}
}

func TestContextAwareSubdividesOversizedText(t *testing.T) {
	words := make([]string, 40)
	for i := range words {
		words[i] = "tok"
	}
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: strings.Join(words, " ")},
		}},
	}}
	c := newFakeChunker(t, fake, []string{"a.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected the oversized element to be subdivided, got %q", chunks)
	}
	total := 0
	for i, chunk := range chunks {
		n := fakeCounter(chunk)
		if n > c.budget.MaxChunkTokens {
			t.Errorf("chunk %d holds %d tokens, budget is %d", i, n, c.budget.MaxChunkTokens)
		}
		total += n
	}
	if total != len(words) {
		t.Errorf("expected all %d words to survive, got %d", len(words), total)
	}
}

func TestContextAwareSplitsTokenDenseText(t *testing.T) {
	// 14 single-letter words: over the 13-token budget while well
	// under the 52-char budget, so splitting must be judged by tokens.
	text := "a a a a a a a\n\na a a a a a a"
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: text},
		}},
	}}
	c := newFakeChunker(t, fake, []string{"a.pdf"}, 10)

	first, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("first ChunkDocuments: %v", err)
	}
	if len(first) < 2 {
		t.Fatalf("expected the element to be subdivided, got %q", first)
	}
	for i, chunk := range first {
		if n := fakeCounter(chunk); n > c.budget.MaxChunkTokens {
			t.Errorf("chunk %d holds %d tokens, budget is %d", i, n, c.budget.MaxChunkTokens)
		}
	}

	// The artifact reload must chunk with the same granularity.
	second, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("second ChunkDocuments: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ across calls: %q vs %q", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestContextAwareOversizedTableEmittedWhole(t *testing.T) {
	table := "| c1 | c2 | c3 | c4 | c5 | c6 | c7 | c8 |\n| --- | --- | --- | --- | --- | --- | --- | --- |\n| v1 | v2 | v3 | v4 | v5 | v6 | v7 | v8 |"
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "before"},
			{Kind: convert.ElementTable, Text: table},
			{Kind: convert.ElementText, Text: "after"},
		}},
	}}
	// The table counts far more than the 13-token budget but is atomic.
	c := newFakeChunker(t, fake, []string{"a.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %q", chunks)
	}
	if chunks[1] != table {
		t.Errorf("table was not emitted intact:\n%q", chunks[1])
	}
}

func TestContextAwareOrderPreserved(t *testing.T) {
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "w1 w2 w3 w4 w5 w6 w7 w8"},
			{Kind: convert.ElementText, Text: "x1 x2 x3 x4 x5 x6 x7 x8"},
		}},
		"b.pdf": {Source: "b.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "y1 y2 y3 y4 y5 y6 y7 y8"},
		}},
	}}
	c := newFakeChunker(t, fake, []string{"a.pdf", "b.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %q", chunks)
	}
	for i, marker := range []string{"w1", "x1", "y1"} {
		if !strings.HasPrefix(chunks[i], marker) {
			t.Errorf("chunk %d out of order: %q", i, chunks[i])
		}
	}
}

func TestContextAwareIdempotent(t *testing.T) {
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a.pdf": {Source: "a.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "alpha"},
			{Kind: convert.ElementText, Text: "beta"},
		}},
	}}
	c := newFakeChunker(t, fake, []string{"a.pdf"}, 10)

	first, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("first ChunkDocuments: %v", err)
	}
	// The second call reuses the persisted artifact instead of
	// converting again.
	second, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("second ChunkDocuments: %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 conversion, got %d", fake.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestContextAwareSameBaseNameDocuments(t *testing.T) {
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"a/doc.pdf": {Source: "a/doc.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "alpha content"},
		}},
		"b/doc.pdf": {Source: "b/doc.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "beta content"},
		}},
	}}
	c := newFakeChunker(t, fake, []string{"a/doc.pdf", "b/doc.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err != nil {
		t.Fatalf("ChunkDocuments: %v", err)
	}
	if fake.calls != 2 {
		t.Errorf("expected both documents converted, got %d calls", fake.calls)
	}
	want := []string{"alpha content", "beta content"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %q, got %q", want, chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i], want[i])
		}
	}
}

func TestContextAwarePartialFailure(t *testing.T) {
	fake := &fakeConverter{docs: map[string]*convert.Document{
		"good.pdf": {Source: "good.pdf", Elements: []convert.Element{
			{Kind: convert.ElementText, Text: "survivor"},
		}},
	}}
	c := newFakeChunker(t, fake, []string{"broken.pdf", "good.pdf"}, 10)

	chunks, err := c.ChunkDocuments()
	if err == nil {
		t.Fatalf("expected a conversion error for broken.pdf")
	}
	if !strings.Contains(err.Error(), "broken.pdf") {
		t.Errorf("error does not name the failed document: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "survivor" {
		t.Fatalf("expected chunks from the surviving document, got %q", chunks)
	}
}
