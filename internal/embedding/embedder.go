// Package embedding turns text into dense vectors via ONNX, Ollama, or feature hashing.
package embedding

import (
	"context"
	"fmt"
	"strings"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendONNX   = "onnx"
	BackendOllama = "ollama"
	BackendHash   = "hash"
)

// ParseBackend normalizes a configured backend name.
func ParseBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case BackendONNX, BackendOllama, BackendHash:
		return b, nil
	case "":
		return BackendONNX, nil
	default:
		return "", fmt.Errorf("unknown embedding backend %q", name)
	}
}

// embedEach runs embed for every text in order, stopping on the first error.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		emb, err := embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}
