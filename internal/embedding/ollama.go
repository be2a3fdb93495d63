package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/sift/internal/ollama"
	"github.com/hyperjump/sift/pkg/utils"
)

// OllamaEmbedder embeds text with a model served by Ollama. Uncached texts in a
// batch go out in a single request.
type OllamaEmbedder struct {
	client     *ollama.Client
	model      string
	dimensions int
	cache      *VectorCache
}

// NewOllamaEmbedder returns an embedder for model. When dimensions is positive every
// returned vector must have that length.
func NewOllamaEmbedder(client *ollama.Client, model string, dimensions, cacheSize int) *OllamaEmbedder {
	return &OllamaEmbedder{
		client:     client,
		model:      model,
		dimensions: dimensions,
		cache:      NewVectorCache(cacheSize),
	}
}

// Embed returns the embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch returns unit-length embeddings for texts, in order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var slots []int
	for i, text := range texts {
		if cached, ok := e.cache.Lookup(text); ok {
			out[i] = cached
			continue
		}
		missing = append(missing, text)
		slots = append(slots, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := e.client.Embed(ctx, e.model, missing)
	if err != nil {
		return nil, err
	}
	for j, vec := range fresh {
		if len(vec) == 0 {
			return nil, fmt.Errorf("ollama: empty embedding for input %d", slots[j])
		}
		if e.dimensions > 0 && len(vec) != e.dimensions {
			return nil, fmt.Errorf("ollama: embedding has dimension %d, expected %d", len(vec), e.dimensions)
		}
		utils.NormalizeL2(vec)
		e.cache.Store(missing[j], vec)
		out[slots[j]] = vec
	}
	return out, nil
}

// Dimensions returns the configured embedding dimension (0 when unknown).
func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (e *OllamaEmbedder) Close() error {
	return nil
}
