// Package pipeline turns a document into ranked, summarized sections for a
// reader persona and task, one document at a time or in batches.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperjump/sift/internal/extract"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/segment"
	"go.uber.org/zap"
)

// DefaultTopK is the number of sections kept when a job does not set one.
const DefaultTopK = 20

// Ranker orders sections by relevance to a persona and task.
type Ranker interface {
	Rank(ctx context.Context, sections []models.Section, persona, task string, topK int) ([]models.RankedSection, error)
}

// Summarizer condenses one section's text for a persona and task.
type Summarizer interface {
	Summarize(ctx context.Context, text, persona, task string, maxOutput int) (string, error)
}

// Pipeline runs segment, rank and summarize over a document. The ranker and
// summarizer are shared across documents and must be safe for concurrent use.
type Pipeline struct {
	reader     *extract.Reader
	segmenter  *segment.Segmenter
	ranker     Ranker
	summarizer Summarizer
	topK       int
	maxOutput  int
	defaults   models.Job
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTopK sets the default number of ranked sections.
func WithTopK(k int) Option {
	return func(p *Pipeline) {
		if k > 0 {
			p.topK = k
		}
	}
}

// WithDefaultJob sets the persona, task and top-k used for any field a job
// leaves empty.
func WithDefaultJob(job models.Job) Option {
	return func(p *Pipeline) { p.defaults = job }
}

// WithMaxOutputTokens bounds each generated summary.
func WithMaxOutputTokens(n int) Option {
	return func(p *Pipeline) { p.maxOutput = n }
}

// WithClock overrides the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithReader sets the document reader used by ProcessFile and ProcessBytes.
func WithReader(r *extract.Reader) Option {
	return func(p *Pipeline) { p.reader = r }
}

// WithSegmenter sets the section segmenter.
func WithSegmenter(s *segment.Segmenter) Option {
	return func(p *Pipeline) { p.segmenter = s }
}

// New creates a pipeline around a ranker and summarizer.
func New(ranker Ranker, summarizer Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		ranker:     ranker,
		summarizer: summarizer,
		topK:       DefaultTopK,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.reader == nil {
		p.reader = extract.NewReader(extract.WithLogger(p.logger))
	}
	if p.segmenter == nil {
		p.segmenter = segment.NewSegmenter(segment.WithLogger(p.logger))
	}
	return p
}

// Process segments doc, ranks its sections for job and summarizes each kept section.
func (p *Pipeline) Process(ctx context.Context, doc *models.Document, job models.Job) (*models.PipelineResult, error) {
	job = p.fillJob(job)
	topK := job.TopK
	if topK <= 0 {
		topK = p.topK
	}

	sections := p.segmenter.Segment(doc)
	if len(sections) == 0 {
		return nil, fmt.Errorf("segment %s: %w", doc.Name, models.ErrNoContent)
	}

	ranked, err := p.ranker.Rank(ctx, sections, job.Persona, job.Task, topK)
	if err != nil {
		return nil, fmt.Errorf("rank %s: %w", doc.Name, err)
	}

	summaries := make([]models.SummaryRecord, 0, len(ranked))
	for _, sec := range ranked {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := p.summarizer.Summarize(ctx, sec.Text, job.Persona, job.Task, p.maxOutput)
		if err != nil {
			return nil, fmt.Errorf("summarize %s page %d: %w", doc.Name, sec.PageNumber, err)
		}
		summaries = append(summaries, models.SummaryRecord{
			Document:    sec.Document,
			PageNumber:  sec.PageNumber,
			RefinedText: text,
		})
	}

	p.logger.Debug("processed document",
		zap.String("document", doc.Name),
		zap.Int("sections", len(sections)),
		zap.Int("ranked", len(ranked)),
	)
	return &models.PipelineResult{
		Metadata: models.ResultMetadata{
			InputDocument:       doc.Name,
			Persona:             job.Persona,
			JobToBeDone:         job.Task,
			ProcessingTimestamp: p.now().UTC(),
		},
		ExtractedSections:  ranked,
		SubsectionAnalysis: summaries,
		SectionCount:       len(sections),
	}, nil
}

// fillJob completes job from the pipeline's default job, then from the package defaults.
func (p *Pipeline) fillJob(job models.Job) models.Job {
	if job.Persona == "" {
		job.Persona = p.defaults.Persona
	}
	if job.Task == "" {
		job.Task = p.defaults.Task
	}
	if job.TopK <= 0 {
		job.TopK = p.defaults.TopK
	}
	return job.WithDefaults()
}

// ProcessFile reads the document at path and processes it. A document that
// cannot be read counts as having no content.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, job models.Job) (*models.PipelineResult, error) {
	doc, err := p.reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrNoContent, err)
	}
	return p.Process(ctx, doc, job)
}

// ProcessBytes parses content named name and processes it.
func (p *Pipeline) ProcessBytes(ctx context.Context, name string, content []byte, job models.Job) (*models.PipelineResult, error) {
	doc, err := p.reader.ReadBytes(name, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrNoContent, err)
	}
	return p.Process(ctx, doc, job)
}
