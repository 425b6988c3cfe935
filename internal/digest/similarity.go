package digest

import "math"

// DefaultSimilarityThreshold is the cosine similarity at or above which two
// embeddings are considered the same content.
const DefaultSimilarityThreshold = 0.98

// CosineSimilarity returns the cosine similarity of a and b.
// ok is false when the vectors are empty, differ in length or either has zero norm.
func CosineSimilarity(a, b []float32) (sim float64, ok bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// EmbeddingsDiffer reports whether newVec and oldVec represent meaningfully different content.
// Missing, mismatched or zero vectors always count as different.
func EmbeddingsDiffer(newVec, oldVec []float32, threshold float64) bool {
	sim, ok := CosineSimilarity(newVec, oldVec)
	if !ok {
		return true
	}
	return sim < threshold
}
