package models

import "math"

// Vector is a fixed-dimension semantic embedding. The platform dimension is
// configuration; a profile or job whose vector does not match it cannot be
// scored.
type Vector []float32

func (v Vector) Dim() int {
	return len(v)
}

// Cosine returns the cosine similarity of two vectors of equal dimension.
// A zero vector yields similarity 0.
func (v Vector) Cosine(other Vector) float64 {
	var dot, normA, normB float64
	for i := range v {
		dot += float64(v[i]) * float64(other[i])
		normA += float64(v[i]) * float64(v[i])
		normB += float64(other[i]) * float64(other[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalized returns the vector scaled to unit length.
func (v Vector) Normalized() Vector {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
