package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_index.go -package=mocks docdigest/internal/vectorstore VectorIndex

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Fetch when no point has the requested ID.
var ErrNotFound = errors.New("vector not found")

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorIndex stores embeddings partitioned by namespace.
type VectorIndex interface {
	// Upsert inserts or replaces points in the namespace.
	Upsert(ctx context.Context, namespace string, points []Point) error

	// Query returns up to topK points of the namespace nearest to vector,
	// keeping only those scoring strictly above minScore, best first.
	Query(ctx context.Context, namespace string, vector []float32, topK int, minScore float32) ([]SearchResult, error)

	// Fetch returns the vector stored under id, or ErrNotFound.
	Fetch(ctx context.Context, namespace, id string) ([]float32, error)
}
