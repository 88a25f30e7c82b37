package chunker

import (
	"fmt"
	"strings"
)

// Heuristics for reconciling a token-based context limit with
// word/character splitting. Exact tokenization is not required for
// sizing chunks of English prose.
const (
	tokensPerWord = 1.3
	charsPerToken = 4

	// reservedCtxTokens is the slice of the context window kept free
	// for the model's answer and prompt overhead.
	reservedCtxTokens = 1024

	// imageTokenEstimate prices an image reference against the budget.
	imageTokenEstimate = 16
)

func tokensFromWords(words int) int {
	return int(float64(words) * tokensPerWord)
}

func charsFromTokens(tokens int) int {
	return tokens * charsPerToken
}

// EstimateTokens gives a rough token count from whitespace-separated
// words, for reporting where exact tokenization is not worth loading
// an encoding.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	tokens := tokensFromWords(words)
	if tokens < 1 && len(text) > 0 {
		tokens = 1
	}
	return tokens
}

// Budget holds the chunk sizing derived from the model context window
// and the requested words per chunk. Immutable for a chunker's
// lifetime.
type Budget struct {
	ServerCtxSize  int
	MaxChunkTokens int
	MaxChunkChars  int
}

// newBudget validates the requested chunk size against the context
// window. A chunk that cannot fit alongside the reserved overhead is
// unrecoverable without changing configuration.
func newBudget(serverCtxSize, chunkWordCount int) (Budget, error) {
	if chunkWordCount <= 0 {
		return Budget{}, fmt.Errorf("%w: chunk word count must be positive, got %d", ErrConfiguration, chunkWordCount)
	}
	maxTokens := tokensFromWords(chunkWordCount)
	if maxTokens >= serverCtxSize-reservedCtxTokens {
		return Budget{}, fmt.Errorf(
			"%w: chunk word count %d needs ~%d tokens but context size %d leaves only %d after reserving %d",
			ErrConfiguration, chunkWordCount, maxTokens, serverCtxSize, serverCtxSize-reservedCtxTokens, reservedCtxTokens,
		)
	}
	return Budget{
		ServerCtxSize:  serverCtxSize,
		MaxChunkTokens: maxTokens,
		MaxChunkChars:  charsFromTokens(maxTokens),
	}, nil
}

// ValidateBudget reports whether a context size and chunk word count
// can produce a usable chunk budget. Configuration loaders call this
// so sizing mistakes fail at startup rather than per request.
func ValidateBudget(serverCtxSize, chunkWordCount int) error {
	_, err := newBudget(serverCtxSize, chunkWordCount)
	return err
}

// wordBudget sizes chunks from a word count alone, for chunkers whose
// token accounting uses a real tokenizer rather than the context
// window split.
func wordBudget(chunkWordCount int) (Budget, error) {
	if chunkWordCount <= 0 {
		return Budget{}, fmt.Errorf("%w: chunk word count must be positive, got %d", ErrConfiguration, chunkWordCount)
	}
	maxTokens := tokensFromWords(chunkWordCount)
	return Budget{
		MaxChunkTokens: maxTokens,
		MaxChunkChars:  charsFromTokens(maxTokens),
	}, nil
}
