package main

import (
	"fmt"

	"github.com/hyperjump/sift/internal/config"
	"github.com/hyperjump/sift/internal/embedding"
	"github.com/hyperjump/sift/internal/extract"
	"github.com/hyperjump/sift/internal/ollama"
	"github.com/hyperjump/sift/internal/pipeline"
	"github.com/hyperjump/sift/internal/ranking"
	"github.com/hyperjump/sift/internal/segment"
	"github.com/hyperjump/sift/internal/storage"
	"github.com/hyperjump/sift/internal/summarize"
	"go.uber.org/zap"
)

// Components holds initialized services. Models are built once and shared by every document.
type Components struct {
	Storage  storage.Storage
	Embedder embedding.Embedder
	Pipeline *pipeline.Pipeline
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// initializeComponents builds the pipeline from cfg. The ledger is opened only when withStorage is set.
func initializeComponents(cfg *config.Config, logger *zap.Logger, withStorage bool) (*Components, error) {
	c := &Components{}
	if withStorage {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		c.Storage = store
	}

	c.Embedder = newEmbedder(cfg.Embedding, logger)
	generator, err := newGenerator(cfg.Summarizer)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize summarizer: %w", err)
	}
	tokenizer := newTokenizer(cfg.Summarizer, logger)

	reader := extract.NewReader(
		extract.WithPDFValidation(cfg.Input.ValidatePDF),
		extract.WithLogger(logger),
	)
	segmenter := segment.NewSegmenter(
		segment.WithRules(segment.Rules{
			MinFontSize: cfg.Segment.MinHeadingSize,
			MinWords:    cfg.Segment.MinHeadingWords,
			BoldMarker:  cfg.Segment.BoldMarker,
		}),
		segment.WithLogger(logger),
	)
	ranker := ranking.NewRanker(c.Embedder, ranking.WithLogger(logger))
	summarizer := summarize.NewSummarizer(generator,
		summarize.WithTokenizer(tokenizer),
		summarize.WithMaxInputTokens(cfg.Summarizer.MaxInputTokens),
		summarize.WithLogger(logger),
	)
	c.Pipeline = pipeline.New(ranker, summarizer,
		pipeline.WithReader(reader),
		pipeline.WithSegmenter(segmenter),
		pipeline.WithTopK(cfg.Pipeline.TopK),
		pipeline.WithDefaultJob(jobFromConfig(cfg)),
		pipeline.WithMaxOutputTokens(cfg.Summarizer.MaxOutputTokens),
		pipeline.WithLogger(logger),
	)

	logger.Info("components initialized",
		zap.String("embedding_backend", cfg.Embedding.Backend),
		zap.Int("embedding_dimensions", c.Embedder.Dimensions()),
		zap.String("generator", generator.Name()),
	)
	return c, nil
}

// newEmbedder returns the configured embedder. A local model that fails to load
// falls back to the hashing embedder so the pipeline still runs.
func newEmbedder(cfg config.EmbeddingConfig, logger *zap.Logger) embedding.Embedder {
	backend, err := embedding.ParseBackend(cfg.Backend)
	if err != nil {
		logger.Warn("unknown embedding backend, using hash embedder", zap.Error(err))
		return embedding.NewHashEmbedder(cfg.Dimensions)
	}
	switch backend {
	case embedding.BackendHash:
		return embedding.NewHashEmbedder(cfg.Dimensions)
	case embedding.BackendOllama:
		client := ollama.NewClient(cfg.OllamaURL)
		return embedding.NewOllamaEmbedder(client, cfg.OllamaModel, cfg.Dimensions, cfg.CacheSize)
	default:
		e, err := embedding.NewONNXEmbedder(embedding.ONNXOptions{
			ModelPath:  cfg.ModelPath,
			Dimensions: cfg.Dimensions,
			MaxTokens:  cfg.MaxTokens,
			CacheSize:  cfg.CacheSize,
		})
		if err != nil {
			logger.Warn("ONNX embedder unavailable, falling back to hash embedder",
				zap.String("model_path", cfg.ModelPath),
				zap.Error(err),
			)
			return embedding.NewHashEmbedder(cfg.Dimensions)
		}
		return e
	}
}

func newGenerator(cfg config.SummarizerConfig) (summarize.Generator, error) {
	backend, err := summarize.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	switch backend {
	case summarize.BackendAnthropic:
		return summarize.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.AnthropicModel, "")
	case summarize.BackendLead:
		return summarize.LeadGenerator{}, nil
	default:
		return summarize.NewOllamaGenerator(ollama.NewClient(cfg.OllamaURL), cfg.OllamaModel), nil
	}
}

// newTokenizer returns the tiktoken tokenizer, or word counting when the encoding cannot be loaded.
func newTokenizer(cfg config.SummarizerConfig, logger *zap.Logger) summarize.Tokenizer {
	if cfg.Tokenizer == summarize.TokenizerWords {
		return summarize.WordTokenizer{}
	}
	t, err := summarize.NewTiktokenTokenizer(cfg.Encoding)
	if err != nil {
		logger.Warn("tiktoken unavailable, counting words instead",
			zap.String("encoding", cfg.Encoding),
			zap.Error(err),
		)
		return summarize.WordTokenizer{}
	}
	return t
}
