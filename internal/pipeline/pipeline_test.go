package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/sift/internal/embedding"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/ranking"
	"github.com/hyperjump/sift/internal/summarize"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.FixedZone("CET", 3600))

func newTestPipeline(opts ...Option) *Pipeline {
	ranker := ranking.NewRanker(embedding.NewHashEmbedder(64))
	summarizer := summarize.NewSummarizer(summarize.LeadGenerator{})
	return New(ranker, summarizer, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func heading(text string) models.StyledRun {
	return models.StyledRun{Text: text, FontSize: 16, FontName: "Helvetica-Bold"}
}

func reportDocument() *models.Document {
	return &models.Document{
		Name: "report.pdf",
		Pages: []models.Page{
			{Text: "Market Overview And Trends\nRevenue grew in every region this year.", Runs: []models.StyledRun{heading("Market Overview And Trends")}},
			{Text: "Growth was strongest in the northern markets."},
			{Text: "Key Findings Summary\nCosts fell while margins widened considerably.", Runs: []models.StyledRun{heading("Key Findings Summary")}},
		},
	}
}

func TestPipeline_Process(t *testing.T) {
	p := newTestPipeline(WithMaxOutputTokens(3))
	res, err := p.Process(context.Background(), reportDocument(), models.Job{Persona: "investor", Task: "assess growth"})
	if err != nil {
		t.Fatal(err)
	}
	m := res.Metadata
	if m.InputDocument != "report.pdf" || m.Persona != "investor" || m.JobToBeDone != "assess growth" {
		t.Errorf("metadata = %+v", m)
	}
	if !m.ProcessingTimestamp.Equal(fixedNow) || m.ProcessingTimestamp.Location() != time.UTC {
		t.Errorf("timestamp = %v, want %v in UTC", m.ProcessingTimestamp, fixedNow)
	}
	if res.SectionCount != 2 {
		t.Errorf("SectionCount = %d, want 2", res.SectionCount)
	}
	if len(res.ExtractedSections) != 2 || len(res.SubsectionAnalysis) != 2 {
		t.Fatalf("got %d sections and %d summaries", len(res.ExtractedSections), len(res.SubsectionAnalysis))
	}
	for i, sec := range res.ExtractedSections {
		if sec.ImportanceRank != i+1 {
			t.Errorf("rank at %d = %d", i, sec.ImportanceRank)
		}
		sum := res.SubsectionAnalysis[i]
		if sum.Document != sec.Document || sum.PageNumber != sec.PageNumber {
			t.Errorf("summary %d = %+v does not match section %+v", i, sum, sec)
		}
		if n := len(strings.Fields(sum.RefinedText)); n != 3 {
			t.Errorf("summary %d has %d words, want 3: %q", i, n, sum.RefinedText)
		}
	}
	pages := map[int]string{}
	for _, sec := range res.ExtractedSections {
		pages[sec.PageNumber] = sec.Title
	}
	if pages[1] != "Market Overview And Trends" || pages[3] != "Key Findings Summary" {
		t.Errorf("sections = %v", pages)
	}
}

func TestPipeline_DefaultJob(t *testing.T) {
	res, err := newTestPipeline().Process(context.Background(), reportDocument(), models.Job{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Metadata.Persona != models.DefaultPersona || res.Metadata.JobToBeDone != models.DefaultTask {
		t.Errorf("metadata = %+v", res.Metadata)
	}
}

func TestPipeline_ConfiguredDefaultJob(t *testing.T) {
	p := newTestPipeline(WithDefaultJob(models.Job{Persona: "travel planner", Task: "plan a trip", TopK: 1}))
	tests := []struct {
		name        string
		job         models.Job
		wantPersona string
		wantTask    string
		wantRanked  int
	}{
		{"empty job", models.Job{}, "travel planner", "plan a trip", 1},
		{"task given", models.Job{Task: "assess growth"}, "travel planner", "assess growth", 1},
		{"all given", models.Job{Persona: "investor", Task: "assess growth", TopK: 2}, "investor", "assess growth", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Process(context.Background(), reportDocument(), tt.job)
			if err != nil {
				t.Fatal(err)
			}
			if res.Metadata.Persona != tt.wantPersona || res.Metadata.JobToBeDone != tt.wantTask {
				t.Errorf("metadata = %+v", res.Metadata)
			}
			if len(res.ExtractedSections) != tt.wantRanked {
				t.Errorf("got %d sections, want %d", len(res.ExtractedSections), tt.wantRanked)
			}
		})
	}
}

func TestPipeline_TopK(t *testing.T) {
	p := newTestPipeline(WithTopK(1))
	res, err := p.Process(context.Background(), reportDocument(), models.Job{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ExtractedSections) != 1 {
		t.Errorf("pipeline top-k: got %d sections", len(res.ExtractedSections))
	}

	res, err = p.Process(context.Background(), reportDocument(), models.Job{TopK: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ExtractedSections) != 2 {
		t.Errorf("job top-k clamped to section count: got %d", len(res.ExtractedSections))
	}
}

func TestPipeline_NoContent(t *testing.T) {
	doc := &models.Document{Name: "blank.pdf", Pages: []models.Page{{Text: "  "}, {}}}
	_, err := newTestPipeline().Process(context.Background(), doc, models.Job{})
	if !errors.Is(err, models.ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, string, string, string, int) (string, error) {
	return "", errors.Join(models.ErrModelFailure, errors.New("backend down"))
}

func TestPipeline_SummarizerFailure(t *testing.T) {
	p := New(ranking.NewRanker(embedding.NewHashEmbedder(16)), failingSummarizer{})
	_, err := p.Process(context.Background(), reportDocument(), models.Job{})
	if !errors.Is(err, models.ErrModelFailure) {
		t.Errorf("expected ErrModelFailure, got %v", err)
	}
}

func TestPipeline_ProcessFile_Unreadable(t *testing.T) {
	_, err := newTestPipeline().ProcessFile(context.Background(), "/does/not/exist.pdf", models.Job{})
	if !errors.Is(err, models.ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}

func TestPipeline_ProcessBytes(t *testing.T) {
	md := "# Quarterly Revenue Report Details\n\nRevenue rose sharply.\n\n# Hiring Plan For Next Year\n\nWe will hire ten engineers.\n"
	res, err := newTestPipeline().ProcessBytes(context.Background(), "plan.md", []byte(md), models.Job{Task: "plan hiring"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Metadata.InputDocument != "plan.md" {
		t.Errorf("input document = %q", res.Metadata.InputDocument)
	}
	if len(res.ExtractedSections) != 2 {
		t.Fatalf("got %d sections", len(res.ExtractedSections))
	}
	titles := map[string]bool{}
	for _, s := range res.ExtractedSections {
		titles[s.Title] = true
	}
	if !titles["Quarterly Revenue Report Details"] || !titles["Hiring Plan For Next Year"] {
		t.Errorf("titles = %v", titles)
	}
}
