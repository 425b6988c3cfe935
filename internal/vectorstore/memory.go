package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorIndex using brute-force cosine similarity.
// Contents are lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	spaces map[string]map[string]Point
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{spaces: make(map[string]map[string]Point)}
}

// Upsert inserts or replaces points in the namespace.
func (s *MemoryStore) Upsert(_ context.Context, namespace string, points []Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	space, ok := s.spaces[namespace]
	if !ok {
		space = make(map[string]Point)
		s.spaces[namespace] = space
	}
	for _, p := range points {
		if p.ID == "" {
			return fmt.Errorf("point id must not be empty")
		}
		vec := make([]float32, len(p.Vec))
		copy(vec, p.Vec)
		meta := make(map[string]any, len(p.Meta))
		for k, v := range p.Meta {
			meta[k] = v
		}
		space[p.ID] = Point{ID: p.ID, Vec: vec, Meta: meta}
	}
	return nil
}

// Query returns the topK nearest points scoring strictly above minScore.
func (s *MemoryStore) Query(_ context.Context, namespace string, vector []float32, topK int, minScore float32) ([]SearchResult, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []SearchResult
	for _, p := range s.spaces[namespace] {
		score, ok := cosine(vector, p.Vec)
		if !ok || score <= minScore {
			continue
		}
		results = append(results, SearchResult{PointID: p.ID, Score: score, Meta: p.Meta})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PointID < results[j].PointID
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Fetch returns the vector stored under id.
func (s *MemoryStore) Fetch(_ context.Context, namespace, id string) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.spaces[namespace][id]
	if !ok {
		return nil, ErrNotFound
	}
	vec := make([]float32, len(p.Vec))
	copy(vec, p.Vec)
	return vec, nil
}

// CollectionExists always reports true; the store needs no setup.
func (s *MemoryStore) CollectionExists(context.Context) (bool, error) {
	return true, nil
}

func cosine(a, b []float32) (float32, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb))), true
}
