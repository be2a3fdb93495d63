package summarize

import (
	"context"

	"github.com/hyperjump/sift/internal/ollama"
)

// OllamaGenerator summarizes with a model served by Ollama.
type OllamaGenerator struct {
	client *ollama.Client
	model  string
}

// NewOllamaGenerator returns a generator for model.
func NewOllamaGenerator(client *ollama.Client, model string) *OllamaGenerator {
	return &OllamaGenerator{client: client, model: model}
}

// Generate runs a greedy completion bounded by req.MaxTokens.
func (g *OllamaGenerator) Generate(ctx context.Context, req Request) (string, error) {
	return g.client.Generate(ctx, ollama.GenerateRequest{
		Model:     g.model,
		Prompt:    req.Prompt,
		MaxTokens: req.MaxTokens,
	})
}

// Name returns the backend name.
func (g *OllamaGenerator) Name() string { return BackendOllama }
