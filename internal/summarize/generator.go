package summarize

import (
	"context"
	"fmt"
	"strings"
)

// Generator backend names accepted by configuration.
const (
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
	BackendLead      = "lead"
)

// Request is one generation call. Prompt is the full model input; Passage is the
// (possibly truncated) section text inside it.
type Request struct {
	Prompt    string
	Passage   string
	MaxTokens int
}

// Generator produces a summary for a prepared prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// ParseBackend normalizes a configured generator backend name.
func ParseBackend(name string) (string, error) {
	switch b := strings.ToLower(strings.TrimSpace(name)); b {
	case BackendOllama, BackendAnthropic, BackendLead:
		return b, nil
	case "":
		return BackendOllama, nil
	default:
		return "", fmt.Errorf("unknown summarizer backend %q", name)
	}
}

// LeadGenerator is an extractive stand-in: it returns the first MaxTokens words
// of the passage. It needs no model and is deterministic.
type LeadGenerator struct{}

// Generate returns the lead of the passage.
func (LeadGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return WordTokenizer{}.Truncate(strings.TrimSpace(req.Passage), req.MaxTokens), nil
}

// Name returns the backend name.
func (LeadGenerator) Name() string { return BackendLead }
