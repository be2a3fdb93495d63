// Package vector provides an exact inner-product index over normalized vectors.
package vector

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperjump/sift/internal/models"
)

// Result is a single search hit: the position of the vector in the original
// ordering and its inner product with the query.
type Result struct {
	Index int
	Score float64
}

// FlatIndex is a brute-force inner-product index. Vectors are expected to be
// L2-normalized, so scores are cosine similarities. It is built once and never mutated.
type FlatIndex struct {
	dimensions int
	vectors    [][]float32
}

// NewFlatIndex builds an index over vectors. The slice must be non-empty and every
// vector must share one positive dimension. Vectors are referenced, not copied.
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("build index: %w", models.ErrEmptyCorpus)
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("build index: zero-dimension vectors: %w", models.ErrInvalidInput)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("build index: vector %d has dimension %d, expected %d: %w", i, len(v), dim, models.ErrInvalidInput)
		}
	}
	return &FlatIndex{dimensions: dim, vectors: vectors}, nil
}

// Dimensions returns the vector dimension.
func (f *FlatIndex) Dimensions() int {
	return f.dimensions
}

// Size returns the number of vectors in the index.
func (f *FlatIndex) Size() int {
	return len(f.vectors)
}

// Search returns the top-k vectors by inner product, at most min(k, Size()) results,
// ordered by descending score with ties going to the lower original index.
func (f *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("search: k must be positive, got %d: %w", k, models.ErrInvalidInput)
	}
	if len(f.vectors) == 0 {
		return nil, fmt.Errorf("search: %w", models.ErrEmptyCorpus)
	}
	if len(query) != f.dimensions {
		return nil, fmt.Errorf("search: query dimension %d, expected %d: %w", len(query), f.dimensions, models.ErrInvalidInput)
	}
	scores := make([]Result, len(f.vectors))
	for i, vec := range f.vectors {
		scores[i] = Result{Index: i, Score: InnerProduct(query, vec)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k], nil
}
