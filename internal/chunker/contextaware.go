package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgardner/docchunk/internal/artifacts"
	"github.com/rgardner/docchunk/internal/convert"
	"github.com/rgardner/docchunk/internal/filetype"
	"github.com/rgardner/docchunk/internal/tokenizer"
)

// ContextAwareChunker chunks documents whose native form is not plain
// text. Each source file is converted to ordered structural elements
// (text, table, image) which are then merged into token-bounded
// chunks. Converted documents are persisted to the output directory
// and reused on later calls.
type ContextAwareChunker struct {
	docPaths    []string
	outputDir   string
	countTokens tokenizer.CountFunc
	budget      Budget
	store       *artifacts.Store

	// converterFor is swappable so the merge algorithm can be tested
	// against a deterministic fake converter.
	converterFor func(filetype.Kind) (convert.Converter, error)
}

// NewContextAware builds a chunker over layout-bearing source files.
func NewContextAware(docPaths []string, outputDir string, counter tokenizer.CountFunc, chunkWordCount int) (*ContextAwareChunker, error) {
	if counter == nil {
		return nil, fmt.Errorf("%w: no token counter", ErrConfiguration)
	}
	budget, err := wordBudget(chunkWordCount)
	if err != nil {
		return nil, err
	}
	return &ContextAwareChunker{
		docPaths:     docPaths,
		outputDir:    outputDir,
		countTokens:  counter,
		budget:       budget,
		store:        artifacts.NewStore(outputDir),
		converterFor: convert.ForKind,
	}, nil
}

// ChunkDocuments converts and chunks every source file, returning the
// flattened chunks in document order. A document that fails
// conversion is skipped; its error is joined into the returned error
// while chunks from the remaining documents are still returned.
func (c *ContextAwareChunker) ChunkDocuments() ([]string, error) {
	if len(c.docPaths) == 0 {
		return nil, nil
	}

	var chunks []string
	var errs []error
	for _, path := range c.docPaths {
		doc, err := c.convertDocument(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		chunks = append(chunks, c.mergeElements(doc.Elements)...)
	}
	return chunks, errors.Join(errs...)
}

// convertDocument returns the structural elements for one source
// file, from the artifact cache when a prior conversion exists.
func (c *ContextAwareChunker) convertDocument(path string) (*convert.Document, error) {
	if doc, ok := c.store.Load(path); ok {
		return doc, nil
	}
	conv, err := c.converterFor(filetype.Classify(path))
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	doc, err := conv.Convert(path)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	// Artifact persistence is reuse/debugging support; the chunks do
	// not depend on it.
	_ = c.store.Save(doc)
	return doc, nil
}

// mergeElements accumulates structural elements into chunks. The
// running buffer flushes when the next element would exceed the token
// budget. Over-budget text elements are subdivided with the separator
// strategy; tables and images are atomic, and one that alone exceeds
// the budget is emitted as its own oversized chunk rather than
// dropped.
func (c *ContextAwareChunker) mergeElements(elements []convert.Element) []string {
	var chunks []string
	var buf strings.Builder
	bufTokens := 0

	flush := func() {
		if piece := strings.TrimSpace(buf.String()); piece != "" {
			chunks = append(chunks, piece)
		}
		buf.Reset()
		bufTokens = 0
	}
	place := func(text string, cost int) {
		if bufTokens+cost > c.budget.MaxChunkTokens && buf.Len() > 0 {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
		bufTokens += cost
	}

	for _, el := range elements {
		cost := c.elementTokens(el)
		if cost <= c.budget.MaxChunkTokens {
			place(el.Text, cost)
			continue
		}
		switch el.Kind {
		case convert.ElementTable, convert.ElementImage:
			flush()
			chunks = append(chunks, el.Text)
		default:
			for _, piece := range c.splitByTokens(el.Text, defaultSeparators) {
				place(piece, c.countTokens(piece))
			}
		}
	}
	flush()
	return chunks
}

// splitByTokens subdivides text until every piece fits the token
// budget, trying separators in priority order. Splitting is judged by
// the real token counter, not the character heuristic: dense text can
// exceed the token budget long before the character budget. The
// character-based hard cut remains the floor for text with no usable
// separators.
func (c *ContextAwareChunker) splitByTokens(text string, separators []string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if c.countTokens(trimmed) <= c.budget.MaxChunkTokens {
		return []string{trimmed}
	}
	if len(separators) == 0 {
		return hardCut(trimmed, c.budget.MaxChunkChars)
	}

	sep, rest := separators[0], separators[1:]
	parts := strings.SplitAfter(trimmed, sep)
	if len(parts) == 1 {
		return c.splitByTokens(trimmed, rest)
	}

	var out []string
	var buf strings.Builder
	flush := func() {
		if piece := strings.TrimSpace(buf.String()); piece != "" {
			out = append(out, piece)
		}
		buf.Reset()
	}
	for _, part := range parts {
		if c.countTokens(part) > c.budget.MaxChunkTokens {
			flush()
			out = append(out, c.splitByTokens(part, rest)...)
			continue
		}
		if buf.Len() > 0 && c.countTokens(buf.String()+part) > c.budget.MaxChunkTokens {
			flush()
		}
		buf.WriteString(part)
	}
	flush()
	return out
}

// elementTokens is the budget cost of one element. Images carry a
// fixed estimate; everything else is counted by the tokenizer.
func (c *ContextAwareChunker) elementTokens(el convert.Element) int {
	if el.Kind == convert.ElementImage {
		return imageTokenEstimate
	}
	return c.countTokens(el.Text)
}
