// Package ranking orders sections by dense similarity to a persona and task query.
package ranking

import (
	"context"
	"fmt"

	"github.com/hyperjump/sift/internal/embedding"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/vector"
	"go.uber.org/zap"
)

// Ranker embeds sections and the query with one shared embedder and ranks by
// exact inner product over normalized vectors.
type Ranker struct {
	embedder embedding.Embedder
	logger   *zap.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Ranker) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRanker creates a Ranker that uses embedder for both sections and queries.
func NewRanker(embedder embedding.Embedder, opts ...Option) *Ranker {
	r := &Ranker{embedder: embedder, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Query builds the retrieval query for a persona and task.
func Query(persona, task string) string {
	return fmt.Sprintf("%s. Task: %s", persona, task)
}

// Rank returns the min(topK, len(sections)) sections most similar to the query,
// with importance ranks 1..k in order of descending score.
func (r *Ranker) Rank(ctx context.Context, sections []models.Section, persona, task string, topK int) ([]models.RankedSection, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("rank: %w", models.ErrEmptyCorpus)
	}
	if topK <= 0 {
		return nil, fmt.Errorf("rank: top-k must be positive, got %d: %w", topK, models.ErrInvalidInput)
	}

	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text
	}
	raw, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, models.BackendError(ctx, "rank: embed sections", err)
	}
	if len(raw) != len(sections) {
		return nil, fmt.Errorf("rank: embedder returned %d vectors for %d sections: %w", len(raw), len(sections), models.ErrModelFailure)
	}

	index, err := vector.NewFlatIndex(vector.Normalized(raw))
	if err != nil {
		return nil, fmt.Errorf("rank: %w: %w", models.ErrModelFailure, err)
	}

	q, err := r.embedder.Embed(ctx, Query(persona, task))
	if err != nil {
		return nil, models.BackendError(ctx, "rank: embed query", err)
	}
	if len(q) != index.Dimensions() {
		return nil, fmt.Errorf("rank: query dimension %d, sections %d: %w", len(q), index.Dimensions(), models.ErrModelFailure)
	}

	k := min(topK, len(sections))
	hits, err := index.Search(ctx, vector.NormalizedCopy(q), k)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	ranked := make([]models.RankedSection, len(hits))
	for i, hit := range hits {
		s := sections[hit.Index]
		ranked[i] = models.RankedSection{
			Document:       s.Document,
			Title:          s.Title,
			ImportanceRank: i + 1,
			PageNumber:     s.PageNumber,
			Text:           s.Text,
			Score:          hit.Score,
		}
	}
	r.logger.Debug("ranked sections",
		zap.Int("sections", len(sections)),
		zap.Int("top_k", k),
		zap.Float64("best_score", ranked[0].Score),
	)
	return ranked, nil
}
