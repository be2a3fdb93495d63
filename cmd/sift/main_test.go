package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/sift/internal/config"
	"github.com/hyperjump/sift/internal/embedding"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/summarize"
	"go.uber.org/zap"
)

func TestFlagsFirst(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{"flags after file are moved first", []string{"report.pdf", "-output", "text"}, []string{"-output", "text", "report.pdf"}},
		{"flags first returns unchanged", []string{"-output", "text", "report.pdf"}, []string{"-output", "text", "report.pdf"}},
		{"file only returns unchanged", []string{"report.pdf"}, []string{"report.pdf"}},
		{"empty args returns unchanged", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagsFirst(tt.args); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("flagsFirst() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// writeTestConfig writes an offline config (hash embedder, lead generator) into dir.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	for _, k := range []string{config.EnvOllamaURL, config.EnvAnthropicAPIKey, config.EnvPersona, config.EnvTask} {
		t.Setenv(k, "")
	}
	content := `
storage:
  database_path: "./runs.db"
input:
  directory: "./input"
output:
  directory: "./output"
pipeline:
  persona: "travel planner"
  task: "plan a trip"
embedding:
  backend: hash
  dimensions: 64
summarizer:
  backend: lead
  tokenizer: words
  max_output_tokens: 5
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

const guideMarkdown = "# Beaches Along The Coast\n\nThe southern beaches are quiet in spring and good for families.\n\n# Nightlife In The City\n\nBars stay open late near the harbour.\n"

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeTestConfig(t, dir)
	cfg, resolved, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != path || cfg.Embedding.Backend != "hash" {
		t.Errorf("resolved %q, backend %q", resolved, cfg.Embedding.Backend)
	}
	if _, _, err := loadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for explicit missing config")
	}
}

func TestLoadConfig_DefaultPathUsesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestConfig(t, dir)
	t.Chdir(dir)
	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(resolved) != "config.yaml" || cfg.Pipeline.Persona != "travel planner" {
		t.Errorf("resolved %q, persona %q", resolved, cfg.Pipeline.Persona)
	}
}

func TestJobFlags_Apply(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	jf := addJobFlags(fs)
	if err := fs.Parse([]string{"-persona", "auditor", "-top-k", "3"}); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	jf.apply(cfg)
	job := jobFromConfig(cfg)
	if job.Persona != "auditor" || job.Task != models.DefaultTask || job.TopK != 3 {
		t.Errorf("job = %+v", job)
	}
	if cfg.Debug {
		t.Error("debug should stay off")
	}
}

func TestNewEmbedder_FallsBackToHash(t *testing.T) {
	cfg := config.EmbeddingConfig{Backend: "onnx", ModelPath: filepath.Join(t.TempDir(), "missing.onnx"), Dimensions: 48, MaxTokens: 16}
	e := newEmbedder(cfg, zap.NewNop())
	defer e.Close()
	if _, ok := e.(*embedding.HashEmbedder); !ok {
		t.Fatalf("expected hash fallback, got %T", e)
	}
	if e.Dimensions() != 48 {
		t.Errorf("dimensions = %d", e.Dimensions())
	}
	if _, ok := newEmbedder(config.EmbeddingConfig{Backend: "ollama", OllamaModel: "all-minilm", Dimensions: 384}, zap.NewNop()).(*embedding.OllamaEmbedder); !ok {
		t.Error("expected ollama embedder")
	}
}

func TestNewGenerator(t *testing.T) {
	g, err := newGenerator(config.SummarizerConfig{Backend: "lead"})
	if err != nil || g.Name() != summarize.BackendLead {
		t.Errorf("lead: %v, %v", g, err)
	}
	g, err = newGenerator(config.SummarizerConfig{Backend: "ollama", OllamaModel: "llama3.2"})
	if err != nil || g.Name() != summarize.BackendOllama {
		t.Errorf("ollama: %v, %v", g, err)
	}
	if _, err := newGenerator(config.SummarizerConfig{Backend: "anthropic", AnthropicModel: "m"}); err == nil {
		t.Error("anthropic without key should fail")
	}
	if _, err := newGenerator(config.SummarizerConfig{Backend: "gpt"}); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestNewTokenizer_Words(t *testing.T) {
	if _, ok := newTokenizer(config.SummarizerConfig{Tokenizer: "words"}, zap.NewNop()).(summarize.WordTokenizer); !ok {
		t.Error("expected word tokenizer")
	}
}

func TestInitializeComponents_DefaultJobFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	t.Setenv(config.EnvPersona, "museum curator")
	cfg, _, err := loadConfig(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	components, err := initializeComponents(cfg, zap.NewNop(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer components.Close()

	res, err := components.Pipeline.ProcessBytes(context.Background(), "guide.md", []byte(guideMarkdown), models.Job{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Metadata.Persona != "museum curator" || res.Metadata.JobToBeDone != "plan a trip" {
		t.Errorf("metadata = %+v, want configured persona and task", res.Metadata)
	}
}

func TestRunProcess(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	doc := filepath.Join(dir, "guide.md")
	if err := os.WriteFile(doc, []byte(guideMarkdown), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runProcess([]string{doc, "-config", cfgPath, "-task", "find beaches"}, &out); err != nil {
		t.Fatal(err)
	}
	var res models.PipelineResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if res.Metadata.InputDocument != "guide.md" || res.Metadata.Persona != "travel planner" || res.Metadata.JobToBeDone != "find beaches" {
		t.Errorf("metadata = %+v", res.Metadata)
	}
	if len(res.ExtractedSections) != 2 {
		t.Errorf("sections = %d", len(res.ExtractedSections))
	}
	for _, s := range res.SubsectionAnalysis {
		if n := len(strings.Fields(s.RefinedText)); n > 5 {
			t.Errorf("summary longer than max_output_tokens: %q", s.RefinedText)
		}
	}

	empty := filepath.Join(dir, "empty.txt")
	_ = os.WriteFile(empty, nil, 0644)
	if err := runProcess([]string{"-config", cfgPath, empty}, &out); err == nil || !strings.Contains(err.Error(), "no_content") {
		t.Errorf("expected no_content error, got %v", err)
	}
}

func TestRunBatchAndStatus(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)
	input := filepath.Join(dir, "input")
	if err := os.MkdirAll(input, 0755); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(input, "guide.md"), []byte(guideMarkdown), 0644)
	_ = os.WriteFile(filepath.Join(input, "blank.txt"), []byte("  "), 0644)

	var out bytes.Buffer
	if err := runBatch([]string{"-config", cfgPath, "-workers", "2"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "1 processed, 1 failed") {
		t.Errorf("run output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "output", "guide.json")); err != nil {
		t.Errorf("guide.json not written: %v", err)
	}

	out.Reset()
	if err := runStatus([]string{"-config", cfgPath, "-output", "json"}, &out); err != nil {
		t.Fatal(err)
	}
	var st models.LedgerStatus
	if err := json.Unmarshal(out.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.Runs != 1 || st.Succeeded != 1 || st.Failed != 1 || len(st.RecentRuns) != 1 {
		t.Errorf("status = %+v", st)
	}
}
