// Package tokens estimates token counts and approximate call cost for
// budget display. Counting is pure; callers decide whether to log it.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

func init() {
	// Embedded dictionaries; counting must not depend on network access.
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// Azure deployment names differ from the canonical tiktoken model names.
var modelAliases = map[string]string{
	"gpt-35-turbo": "gpt-3.5-turbo",
}

// Estimate returns the token count of text under the given model's
// tokenization rules. An unknown model propagates the tokenizer error.
func Estimate(text, model string) (int, error) {
	if alias, ok := modelAliases[model]; ok {
		model = alias
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return 0, fmt.Errorf("encoding for model %s: %w", model, err)
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// Cost converts a token count to an approximate dollar figure at a flat
// $5 per million tokens. Informational only.
func Cost(tokens int) float64 {
	return float64(tokens) * 5 / 1_000_000
}
