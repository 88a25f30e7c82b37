// Package chunker splits heterogeneous source documents into
// bounded-size text chunks that fit a model's context window. The
// factory inspects a leaf node's file types and builds the matching
// strategy: plain-text documents are split directly, layout-bearing
// documents are converted to structural elements first.
package chunker

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rgardner/docchunk/internal/filetype"
	"github.com/rgardner/docchunk/internal/taxonomy"
	"github.com/rgardner/docchunk/internal/tokenizer"
)

var (
	// ErrInvalidInput marks leaf nodes the factory refuses: empty or
	// mismatched document/path lists, unsupported file types, mixed
	// strategies.
	ErrInvalidInput = errors.New("invalid chunker input")

	// ErrConfiguration marks unrecoverable sizing or tokenizer
	// configuration problems, surfaced before any chunking work.
	ErrConfiguration = errors.New("invalid chunker configuration")
)

// Chunker produces the ordered chunks for one leaf node's documents.
type Chunker interface {
	ChunkDocuments() ([]string, error)
}

// Params carries the factory construction parameters.
type Params struct {
	// TaxonomyPath is the directory root for resolving relative file
	// paths.
	TaxonomyPath string

	// OutputDir receives persisted conversion artifacts.
	OutputDir string

	// TokenizerModelName identifies the tokenizer used for token
	// accounting by the context-aware strategy.
	TokenizerModelName string

	// ServerCtxSize is the model context window in tokens.
	ServerCtxSize int

	// ChunkWordCount is the target words per chunk.
	ChunkWordCount int

	// TokenCounter overrides tokenizer resolution when set. Tests
	// inject a counter here to avoid loading a real encoding.
	TokenCounter tokenizer.CountFunc
}

// New classifies the leaf node's files and builds the chunker for
// them. Exactly one strategy must apply to the whole node; anything
// else is an invalid-input error, never a silently degraded chunker.
func New(leaf taxonomy.LeafNode, params Params) (Chunker, error) {
	if len(leaf.Documents) == 0 || len(leaf.Filepaths) == 0 {
		return nil, fmt.Errorf("%w: leaf node %q has no documents or no file paths", ErrInvalidInput, leaf.TaxonomyPath)
	}
	if len(leaf.Documents) != len(leaf.Filepaths) {
		return nil, fmt.Errorf("%w: %d documents for %d file paths", ErrInvalidInput, len(leaf.Documents), len(leaf.Filepaths))
	}

	strategies := make(map[filetype.Strategy]bool)
	for _, fp := range leaf.Filepaths {
		kind := filetype.Classify(fp)
		if kind == filetype.Unknown {
			return nil, fmt.Errorf("%w: unsupported file type %q in %s", ErrInvalidInput, filepath.Ext(fp), fp)
		}
		strategies[kind.Strategy()] = true
	}
	if len(strategies) > 1 {
		return nil, fmt.Errorf("%w: leaf node mixes plain-text and layout-bearing documents", ErrInvalidInput)
	}

	if strategies[filetype.StrategyTextSplit] {
		return NewTextSplit(leaf.Documents, params.ServerCtxSize, params.ChunkWordCount, params.OutputDir)
	}

	paths := make([]string, len(leaf.Filepaths))
	for i, fp := range leaf.Filepaths {
		paths[i] = taxonomy.ResolvePath(params.TaxonomyPath, fp)
	}
	counter := params.TokenCounter
	if counter == nil {
		var err error
		counter, err = tokenizer.Resolve(params.TokenizerModelName)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}
	// Artifacts are grouped under the leaf node's taxonomy directory.
	artifactDir := params.OutputDir
	if leaf.TaxonomyPath != "" {
		artifactDir = taxonomy.ResolveDir(params.OutputDir, leaf.TaxonomyPath)
	}
	return NewContextAware(paths, artifactDir, counter, params.ChunkWordCount)
}
