// Package embed implements the lexical embedder used for candidate
// similarity. Embeddings are bag-of-token vectors built with the hashing
// trick: no vocabulary is stored, so the same text always produces the
// same vector in any process and any session.
package embed

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimension is the embedding dimension used across the engine.
const DefaultDimension = 100

// minTokenLength drops single-character noise tokens.
const minTokenLength = 2

// stopwords are excluded from embeddings. The set is intentionally small:
// candidate profiles are short and aggressive filtering hurts recall.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {},
	"to": {}, "in": {}, "for": {}, "at": {}, "on": {}, "with": {},
	"is": {}, "are": {}, "was": {}, "be": {}, "by": {}, "as": {},
	"from": {}, "its": {}, "it": {}, "we": {}, "our": {},
}

// Embedder converts free text into fixed-dimension unit vectors.
type Embedder struct {
	dim int
}

// New creates an embedder with the given dimension. Non-positive dimensions
// fall back to DefaultDimension.
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Embedder{dim: dim}
}

// Dimension returns the embedder's output dimension.
func (e *Embedder) Dimension() int {
	return e.dim
}

// Tokenize lowercases the text, splits on non-alphanumeric runes, and drops
// short tokens and stopwords.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Embed builds the L2-normalized bag-of-tokens vector for the text. Each
// token increments the bucket at fnv1a(token) mod dimension. Text with no
// usable tokens returns the zero vector.
func (e *Embedder) Embed(text string) []float64 {
	vec := make([]float64, e.dim)

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		vec[e.bucket(tok)] += 1.0
	}

	normalizeInPlace(vec)
	return vec
}

func (e *Embedder) bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(e.dim))
}

func normalizeInPlace(vec []float64) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += v * v
	}
	if sumSquares == 0 {
		return
	}
	norm := 1.0 / math.Sqrt(sumSquares)
	for i := range vec {
		vec[i] *= norm
	}
}
