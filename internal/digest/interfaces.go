package digest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_hash_store.go -package=mocks docdigest/internal/digest HashStore
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docdigest/internal/digest Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks docdigest/internal/digest Completer

import (
	"context"

	"docdigest/internal/llm"
)

// HashStore persists the content hash of every chunk title per document.
type HashStore interface {
	// LoadHashes returns title -> content hash for docID. Unknown documents yield an empty map.
	LoadHashes(ctx context.Context, docID string) (map[string]string, error)
	// SaveHashes replaces every stored hash of docID with hashes, leaving other documents untouched.
	SaveHashes(ctx context.Context, docID string, hashes map[string]string) error
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Completer generates text from a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts llm.CompletionOptions) (string, error)
}
