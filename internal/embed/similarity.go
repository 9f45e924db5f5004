package embed

import "math"

// Cosine calculates cosine similarity between two float64 vectors.
// Returns a value in [-1, 1] where 1 = identical direction. Mismatched
// lengths and zero-norm vectors return 0 rather than an error: callers
// treat "no signal" and "no similarity" the same way.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// MaxCosine returns the highest cosine similarity between the query vector
// and any vector in the set, along with the key of the best match. An empty
// set returns ("", 0).
func MaxCosine(query []float64, set map[string][]float64) (string, float64) {
	var (
		bestKey string
		best    float64
	)
	for key, vec := range set {
		sim := Cosine(query, vec)
		if sim > best || (sim == best && (bestKey == "" || key < bestKey)) {
			bestKey = key
			best = sim
		}
	}
	return bestKey, best
}
