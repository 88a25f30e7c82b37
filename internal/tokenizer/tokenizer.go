// Package tokenizer resolves a model name to a token-counting
// function. Chunkers take the function, not the model name, so tests
// can inject a fake counter.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// CountFunc returns the number of tokens in text.
type CountFunc func(text string) int

// Resolve builds a CountFunc for a tokenizer model name. The name may
// be an encoding name ("cl100k_base") or a model name ("gpt-4"). An
// unresolvable name is a configuration problem for the caller.
func Resolve(modelName string) (CountFunc, error) {
	enc, err := tiktoken.GetEncoding(modelName)
	if err != nil {
		enc, err = tiktoken.EncodingForModel(modelName)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tokenizer %q: %w", modelName, err)
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}
