package tutor

import (
	"sync"
	"unicode/utf8"

	"github.com/tiktoken-go/tokenizer"
)

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
)

// EstimateTokens approximates the prompt size with the cl100k encoding.
// Providers tokenize differently, so this is only used for logs and metrics.
func EstimateTokens(text string) int {
	codecOnce.Do(func() {
		enc, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err == nil {
			codec = enc
		}
	})
	if codec == nil {
		return utf8.RuneCountInString(text) / 2
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return utf8.RuneCountInString(text) / 2
	}
	return len(ids)
}
