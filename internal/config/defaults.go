package config

import "github.com/hyperjump/sift/internal/models"

// DefaultExtensions are the input file types a batch run picks up.
var DefaultExtensions = []string{".pdf", ".docx", ".pptx", ".xlsx", ".odt", ".odp", ".ods", ".rtf", ".md", ".html", ".htm", ".txt", ".rst"}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/sift/data/db/runs.db"
	}
	if cfg.Input.Directory == "" {
		cfg.Input.Directory = "./input"
	}
	if cfg.Input.Extensions == nil {
		cfg.Input.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./output"
	}

	if cfg.Pipeline.Persona == "" {
		cfg.Pipeline.Persona = models.DefaultPersona
	}
	if cfg.Pipeline.Task == "" {
		cfg.Pipeline.Task = models.DefaultTask
	}
	if cfg.Pipeline.TopK == 0 {
		cfg.Pipeline.TopK = 20
	}
	if cfg.Pipeline.Workers == 0 {
		cfg.Pipeline.Workers = 4
	}

	if cfg.Segment.MinHeadingSize == 0 {
		cfg.Segment.MinHeadingSize = 12
	}
	if cfg.Segment.MinHeadingWords == 0 {
		cfg.Segment.MinHeadingWords = 3
	}
	if cfg.Segment.BoldMarker == "" {
		cfg.Segment.BoldMarker = "bold"
	}

	if cfg.Embedding.Backend == "" {
		cfg.Embedding.Backend = "onnx"
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/sift/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.OllamaURL == "" {
		cfg.Embedding.OllamaURL = "http://localhost:11434"
	}
	if cfg.Embedding.OllamaModel == "" {
		cfg.Embedding.OllamaModel = "all-minilm"
	}

	if cfg.Summarizer.Backend == "" {
		cfg.Summarizer.Backend = "ollama"
	}
	if cfg.Summarizer.Tokenizer == "" {
		cfg.Summarizer.Tokenizer = "tiktoken"
	}
	if cfg.Summarizer.Encoding == "" {
		cfg.Summarizer.Encoding = "cl100k_base"
	}
	if cfg.Summarizer.MaxInputTokens == 0 {
		cfg.Summarizer.MaxInputTokens = 512
	}
	if cfg.Summarizer.MaxOutputTokens == 0 {
		cfg.Summarizer.MaxOutputTokens = 128
	}
	if cfg.Summarizer.OllamaURL == "" {
		cfg.Summarizer.OllamaURL = "http://localhost:11434"
	}
	if cfg.Summarizer.OllamaModel == "" {
		cfg.Summarizer.OllamaModel = "llama3.2"
	}
	if cfg.Summarizer.AnthropicModel == "" {
		cfg.Summarizer.AnthropicModel = "claude-3-5-haiku-latest"
	}
}
