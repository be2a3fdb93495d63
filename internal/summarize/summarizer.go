// Package summarize writes persona and task conditioned summaries of section text.
package summarize

import (
	"context"
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"go.uber.org/zap"
)

// DefaultMaxOutputTokens bounds the generated summary when no limit is given.
const DefaultMaxOutputTokens = 128

// Summarizer prepares prompts within the input budget and delegates to a Generator.
type Summarizer struct {
	generator      Generator
	tokenizer      Tokenizer
	maxInputTokens int
	logger         *zap.Logger
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Summarizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTokenizer sets the tokenizer used for the input budget.
func WithTokenizer(t Tokenizer) Option {
	return func(s *Summarizer) {
		if t != nil {
			s.tokenizer = t
		}
	}
}

// WithMaxInputTokens sets the prompt budget (DefaultMaxInputTokens when not positive).
func WithMaxInputTokens(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxInputTokens = n
		}
	}
}

// NewSummarizer creates a Summarizer backed by generator. The tokenizer defaults
// to WordTokenizer.
func NewSummarizer(generator Generator, opts ...Option) *Summarizer {
	s := &Summarizer{
		generator:      generator,
		tokenizer:      WordTokenizer{},
		maxInputTokens: DefaultMaxInputTokens,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns a summary of text for persona and task, at most maxOutput
// tokens long (DefaultMaxOutputTokens when not positive). Blank text yields ""
// without calling the generator.
func (s *Summarizer) Summarize(ctx context.Context, text, persona, task string, maxOutput int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutputTokens
	}
	prompt, passage := PreparePrompt(s.tokenizer, persona, task, text, s.maxInputTokens)
	if len(passage) < len(text) {
		s.logger.Debug("truncated passage",
			zap.Int("original_bytes", len(text)),
			zap.Int("kept_bytes", len(passage)),
		)
	}
	out, err := s.generator.Generate(ctx, Request{Prompt: prompt, Passage: passage, MaxTokens: maxOutput})
	if err != nil {
		return "", models.BackendError(ctx, "summarize with "+s.generator.Name(), err)
	}
	return strings.TrimSpace(out), nil
}
