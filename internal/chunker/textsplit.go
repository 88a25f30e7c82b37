package chunker

import "strings"

// defaultSeparators is the splitting priority: paragraph break, line
// break, sentence end, word boundary. A hard character cut applies
// only when none of these produce pieces within budget.
var defaultSeparators = []string{"\n\n", "\n", ". ", " "}

// TextSplitChunker splits already-plain-text document contents into
// chunks bounded by the recursive separator strategy.
type TextSplitChunker struct {
	contents  []string
	budget    Budget
	outputDir string
}

// NewTextSplit builds a chunker over plain-text document contents.
// The budget invariant is checked here, not at chunking time.
func NewTextSplit(contents []string, serverCtxSize, chunkWordCount int, outputDir string) (*TextSplitChunker, error) {
	budget, err := newBudget(serverCtxSize, chunkWordCount)
	if err != nil {
		return nil, err
	}
	return &TextSplitChunker{
		contents:  contents,
		budget:    budget,
		outputDir: outputDir,
	}, nil
}

// ChunkDocuments splits every document and returns the flattened
// chunks in document order. Empty input yields no chunks and no
// error.
func (c *TextSplitChunker) ChunkDocuments() ([]string, error) {
	var chunks []string
	for _, content := range c.contents {
		chunks = append(chunks, splitRecursive(content, defaultSeparators, c.budget.MaxChunkChars)...)
	}
	return chunks, nil
}

// splitRecursive splits text into pieces of at most maxChars, trying
// each separator in priority order and recursing with the remaining
// separators only on over-budget pieces. Adjacent small pieces are
// merged back up to the budget so chunks stay as large as allowed.
func splitRecursive(text string, separators []string, maxChars int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if len(trimmed) <= maxChars {
		return []string{trimmed}
	}
	if len(separators) == 0 {
		return hardCut(trimmed, maxChars)
	}

	sep, rest := separators[0], separators[1:]
	parts := strings.SplitAfter(trimmed, sep)
	if len(parts) == 1 {
		return splitRecursive(trimmed, rest, maxChars)
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
		if len(part) > maxChars {
			flush()
			out = append(out, splitRecursive(part, rest, maxChars)...)
			continue
		}
		if buf.Len()+len(part) > maxChars {
			flush()
		}
		buf.WriteString(part)
	}
	flush()
	return out
}

// hardCut is the last resort for text with no usable separators. Cuts
// on rune boundaries so multi-byte characters stay intact.
func hardCut(text string, maxChars int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += maxChars {
		end := min(start+maxChars, len(runes))
		if piece := strings.TrimSpace(string(runes[start:end])); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
