package llm

import (
	"errors"
	"math"
	"unicode/utf8"
)

// DefaultMaxTokens is the embedding input limit used when none is configured.
const DefaultMaxTokens = 8192

var (
	// ErrEmptyInput is returned when there is no text to embed.
	ErrEmptyInput = errors.New("empty input")
	// ErrInputTooLarge is returned when text exceeds the embedding model's token limit.
	ErrInputTooLarge = errors.New("input exceeds embedding token limit")
)

// CompletionOptions holds parameters for a single completion request.
type CompletionOptions struct {
	// SystemMessage is sent ahead of the prompt when non-empty.
	SystemMessage string

	// Temperature controls the randomness of the output.
	Temperature float32
}

// estimateTokens approximates the token count of text (4 chars per token).
func estimateTokens(text string) int {
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / 4.0))
}
