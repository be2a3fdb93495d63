package vector

import (
	"math"

	"github.com/hyperjump/sift/pkg/utils"
)

// InnerProduct returns the inner product of two vectors (for normalized vectors equals cosine similarity).
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// L2Norm returns the L2 norm of a vector.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// Normalized returns unit-length copies of vectors. Zero vectors are copied unchanged.
func Normalized(vectors [][]float32) [][]float32 {
	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = NormalizedCopy(v)
	}
	return out
}

// NormalizedCopy returns a unit-length copy of v, leaving v untouched.
func NormalizedCopy(v []float32) []float32 {
	c := make([]float32, len(v))
	copy(c, v)
	utils.NormalizeL2(c)
	return c
}
