package segment

import (
	"strings"
	"testing"

	"github.com/hyperjump/sift/internal/models"
)

func boldRun(text string) models.StyledRun {
	return models.StyledRun{Text: text, FontSize: 14, FontName: "Helvetica-Bold"}
}

func bodyRun(text string) models.StyledRun {
	return models.StyledRun{Text: text, FontSize: 10, FontName: "Helvetica"}
}

func TestRules_IsCandidate(t *testing.T) {
	r := DefaultRules()
	tests := []struct {
		name string
		run  models.StyledRun
		want bool
	}{
		{"all conditions met", boldRun("Key Findings Summary"), true},
		{"exactly 12pt", models.StyledRun{Text: "Key Findings Summary", FontSize: 12, FontName: "Arial-BoldMT"}, true},
		{"too small", models.StyledRun{Text: "Key Findings Summary", FontSize: 11.9, FontName: "Arial-Bold"}, false},
		{"two words", boldRun("Key Findings"), false},
		{"no alphanumeric", boldRun("- - - -"), false},
		{"not bold", models.StyledRun{Text: "Key Findings Summary", FontSize: 18, FontName: "Times-Roman"}, false},
		{"bold case-insensitive", models.StyledRun{Text: "Key Findings Summary", FontSize: 18, FontName: "TIMES-BOLD"}, true},
		{"surrounding whitespace ignored", boldRun("  Methods and Materials  "), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.IsCandidate(tt.run); got != tt.want {
				t.Errorf("IsCandidate(%+v) = %v, want %v", tt.run, got, tt.want)
			}
		})
	}
}

func TestRules_DetectFirstCandidateOnly(t *testing.T) {
	r := DefaultRules()
	d := r.Detect([]models.StyledRun{
		bodyRun("body text here"),
		boldRun("Spurious Bold Callout"),
		boldRun("The Real Heading"),
	})
	if !d.Detected || d.Heading != "Spurious Bold Callout" {
		t.Errorf("Detect = %+v, want first candidate", d)
	}
	if got := r.Detect([]models.StyledRun{bodyRun("a b c d")}); got != NoHeading {
		t.Errorf("Detect = %+v, want NoHeading", got)
	}
	if d := r.Detect([]models.StyledRun{boldRun(" Results\n and   Discussion ")}); d.Heading != "Results and Discussion" {
		t.Errorf("heading whitespace not collapsed: %q", d.Heading)
	}
}

func TestSegment_NoHeadingsYieldsOneSection(t *testing.T) {
	doc := &models.Document{
		Name: "annual-report.pdf",
		Pages: []models.Page{
			{Text: "page one", Runs: []models.StyledRun{bodyRun("page one")}},
			{Text: "page two", Runs: []models.StyledRun{boldRun("Two Words")}},
			{Text: "page three"},
		},
	}
	got := NewSegmenter().Segment(doc)
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d: %+v", len(got), got)
	}
	s := got[0]
	if s.Title != "annual-report" || s.PageNumber != 1 || s.Document != "annual-report.pdf" {
		t.Errorf("unexpected section: %+v", s)
	}
	if s.Text != "page one\npage two\npage three" {
		t.Errorf("text = %q", s.Text)
	}
}

func TestSegment_HeadingStartsNewSection(t *testing.T) {
	doc := &models.Document{
		Name: "doc.pdf",
		Pages: []models.Page{
			{Text: "Intro text"},
			{Text: "Findings text", Runs: []models.StyledRun{boldRun("Key Findings Summary")}},
		},
	}
	got := NewSegmenter().Segment(doc)
	want := []models.Section{
		{Document: "doc.pdf", Title: "doc", Text: "Intro text", PageNumber: 1},
		{Document: "doc.pdf", Title: "Key Findings Summary", Text: "Findings text", PageNumber: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sections, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("section %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSegment_EmptyLeadingSectionDropped(t *testing.T) {
	doc := &models.Document{
		Name: "doc.pdf",
		Pages: []models.Page{
			{Text: "Overview body", Runs: []models.StyledRun{boldRun("Executive Overview Section")}},
			{Text: "more"},
		},
	}
	got := NewSegmenter().Segment(doc)
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %+v", got)
	}
	if got[0].Title != "Executive Overview Section" || got[0].Text != "Overview body\nmore" || got[0].PageNumber != 1 {
		t.Errorf("unexpected section: %+v", got[0])
	}
}

func TestSegment_HeadingPageWithoutTextFilledByFollowingPages(t *testing.T) {
	doc := &models.Document{
		Name: "doc.pdf",
		Pages: []models.Page{
			{Text: "preamble"},
			{Text: "   ", Runs: []models.StyledRun{boldRun("Chapter Two Begins")}},
			{Text: "chapter body"},
			{Text: "", Runs: []models.StyledRun{boldRun("Trailing Empty Heading")}},
		},
	}
	got := NewSegmenter().Segment(doc)
	if len(got) != 2 {
		t.Fatalf("expected 2 sections, got %+v", got)
	}
	if got[1].Title != "Chapter Two Begins" || got[1].Text != "chapter body" || got[1].PageNumber != 2 {
		t.Errorf("unexpected second section: %+v", got[1])
	}
}

func TestSegment_PageNumbersNonDecreasingAndPagesCovered(t *testing.T) {
	var pages []models.Page
	for i := 0; i < 12; i++ {
		p := models.Page{Text: "p" + string(rune('a'+i))}
		if i%3 == 1 {
			p.Runs = []models.StyledRun{boldRun("Section Heading Number " + string(rune('A'+i)))}
		}
		pages = append(pages, p)
	}
	got := NewSegmenter().Segment(&models.Document{Name: "x.pdf", Pages: pages})
	last := 0
	var joined []string
	for _, s := range got {
		if s.PageNumber < last {
			t.Errorf("page numbers decrease: %d after %d", s.PageNumber, last)
		}
		last = s.PageNumber
		joined = append(joined, s.Text)
	}
	var want []string
	for _, p := range pages {
		want = append(want, p.Text)
	}
	if strings.Join(joined, "\n") != strings.Join(want, "\n") {
		t.Errorf("pages not covered exactly once:\n got %q\nwant %q", strings.Join(joined, "\n"), strings.Join(want, "\n"))
	}
}

func TestSegment_EmptyDocument(t *testing.T) {
	if got := NewSegmenter().Segment(&models.Document{Name: "blank.pdf", Pages: []models.Page{{}, {}}}); len(got) != 0 {
		t.Errorf("expected no sections, got %+v", got)
	}
}

func TestSegment_CustomRules(t *testing.T) {
	seg := NewSegmenter(WithRules(Rules{MinFontSize: 20, MinWords: 1, BoldMarker: "heavy"}))
	doc := &models.Document{
		Name: "d.md",
		Pages: []models.Page{
			{Text: "a"},
			{Text: "b", Runs: []models.StyledRun{{Text: "Title", FontSize: 24, FontName: "Inter-Heavy"}}},
		},
	}
	got := seg.Segment(doc)
	if len(got) != 2 || got[1].Title != "Title" {
		t.Errorf("custom rules not applied: %+v", got)
	}
}
