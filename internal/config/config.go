// Package config provides configuration loading and structs for sift.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	LogFormat  string           `yaml:"log_format" validate:"oneof=json console"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Segment    SegmentConfig    `yaml:"segment"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// StorageConfig holds the run ledger location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" validate:"required"`
}

// InputConfig selects the documents a batch run reads.
type InputConfig struct {
	Directory   string   `yaml:"directory" validate:"required"`
	Extensions  []string `yaml:"extensions"`
	ValidatePDF bool     `yaml:"validate_pdf"`
}

// OutputConfig is where batch results are written.
type OutputConfig struct {
	Directory string `yaml:"directory" validate:"required"`
}

// PipelineConfig holds the default job and batch settings.
type PipelineConfig struct {
	Persona  string `yaml:"persona"`
	Task     string `yaml:"task"`
	TopK     int    `yaml:"top_k" validate:"min=1"`
	Workers  int    `yaml:"workers" validate:"min=1"`
	Schedule string `yaml:"schedule"` // cron expression; empty runs once
}

// SegmentConfig holds the heading detection thresholds.
type SegmentConfig struct {
	MinHeadingSize  float64 `yaml:"min_heading_size" validate:"gt=0"`
	MinHeadingWords int     `yaml:"min_heading_words" validate:"min=1"`
	BoldMarker      string  `yaml:"bold_marker" validate:"required"`
}

// EmbeddingConfig holds embedding model settings.
type EmbeddingConfig struct {
	Backend     string `yaml:"backend" validate:"oneof=onnx ollama hash"`
	ModelPath   string `yaml:"model_path"`
	Dimensions  int    `yaml:"dimensions" validate:"min=1"`
	MaxTokens   int    `yaml:"max_tokens" validate:"min=2"`
	CacheSize   int    `yaml:"cache_size" validate:"min=0"`
	OllamaURL   string `yaml:"ollama_url" validate:"required_if=Backend ollama"`
	OllamaModel string `yaml:"ollama_model" validate:"required_if=Backend ollama"`
}

// SummarizerConfig holds generation backend and token budget settings.
type SummarizerConfig struct {
	Backend         string `yaml:"backend" validate:"oneof=ollama anthropic lead"`
	Tokenizer       string `yaml:"tokenizer" validate:"oneof=tiktoken words"`
	Encoding        string `yaml:"encoding"`
	MaxInputTokens  int    `yaml:"max_input_tokens" validate:"min=1"`
	MaxOutputTokens int    `yaml:"max_output_tokens" validate:"min=1"`
	OllamaURL       string `yaml:"ollama_url" validate:"required_if=Backend ollama"`
	OllamaModel     string `yaml:"ollama_model" validate:"required_if=Backend ollama"`
	AnthropicModel  string `yaml:"anthropic_model" validate:"required_if=Backend anthropic"`
	AnthropicAPIKey string `yaml:"anthropic_api_key,omitempty" validate:"required_if=Backend anthropic"`
}

// Environment variables that override file settings.
const (
	EnvOllamaURL       = "SIFT_OLLAMA_URL"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvPersona         = "SIFT_PERSONA"
	EnvTask            = "SIFT_TASK"
)

// Load reads and parses the config file at path, applies defaults and
// environment overrides, and expands paths.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)
	cfg.expandPaths(filepath.Dir(path))
	return &cfg, nil
}

// Default returns the default configuration with environment overrides applied.
// Relative paths resolve against the working directory.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)
	cfg.expandPaths(".")
	return &cfg
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any set environment variables.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvOllamaURL); v != "" {
		cfg.Embedding.OllamaURL = v
		cfg.Summarizer.OllamaURL = v
	}
	if v := os.Getenv(EnvAnthropicAPIKey); v != "" {
		cfg.Summarizer.AnthropicAPIKey = v
	}
	if v := os.Getenv(EnvPersona); v != "" {
		cfg.Pipeline.Persona = v
	}
	if v := os.Getenv(EnvTask); v != "" {
		cfg.Pipeline.Task = v
	}
}

// Validate checks field constraints and the cron schedule.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on '%s' tag", e.Namespace(), e.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	if c.Pipeline.Schedule != "" {
		if _, err := cron.ParseStandard(c.Pipeline.Schedule); err != nil {
			return fmt.Errorf("invalid config: pipeline.schedule: %w", err)
		}
	}
	return nil
}

func (c *Config) expandPaths(configDir string) {
	c.Storage.DatabasePath = expandPath(c.Storage.DatabasePath, configDir)
	c.Input.Directory = expandPath(c.Input.Directory, configDir)
	c.Output.Directory = expandPath(c.Output.Directory, configDir)
	if c.Embedding.ModelPath != "" {
		c.Embedding.ModelPath = expandPath(c.Embedding.ModelPath, configDir)
	}
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		if abs, err := filepath.Abs(filepath.Join(configDir, path)); err == nil {
			return abs
		}
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
