package services

import "math"

// SimilarityProvider returns the best cosine similarity between a query
// vector and a set of candidate vectors. An empty candidate set scores 0.0
// rather than erroring, so a missing embedding silently degrades the
// dimension that needed it.
type SimilarityProvider interface {
	BestMatch(query []float32, candidates [][]float32) float64
}

type cosineSimilarityProvider struct{}

func NewCosineSimilarityProvider() SimilarityProvider {
	return &cosineSimilarityProvider{}
}

// BestMatch implements SimilarityProvider.
func (c *cosineSimilarityProvider) BestMatch(query []float32, candidates [][]float32) float64 {
	if len(query) == 0 || len(candidates) == 0 {
		return 0.0
	}

	best := 0.0
	for _, candidate := range candidates {
		if sim := CosineSimilarity(query, candidate); sim > best {
			best = sim
		}
	}

	return best
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched dimensions or zero-norm vectors score 0.0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
