// Package segment splits paginated documents into heading-delimited sections.
package segment

import (
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"go.uber.org/zap"
)

// Segmenter converts a document's pages into an ordered list of sections.
type Segmenter struct {
	rules  Rules
	logger *zap.Logger
}

// Option configures a Segmenter.
type Option func(*Segmenter)

// WithLogger sets a logger for debug output (headings found, sections dropped).
func WithLogger(l *zap.Logger) Option {
	return func(s *Segmenter) { s.logger = l }
}

// WithRules overrides the heading thresholds.
func WithRules(r Rules) Option {
	return func(s *Segmenter) { s.rules = r }
}

// NewSegmenter returns a Segmenter using DefaultRules unless overridden.
func NewSegmenter(opts ...Option) *Segmenter {
	s := &Segmenter{rules: DefaultRules(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Segment walks the pages in order and returns the non-empty sections.
// A document with no detected headings yields a single section titled with its base name.
func (s *Segmenter) Segment(doc *models.Document) []models.Section {
	var out []models.Section
	acc := newAccumulator(doc.Name)
	acc.open(doc.BaseName(), 1, "")

	for i, page := range doc.Pages {
		pageNumber := i + 1
		text := strings.TrimSpace(page.Text)
		decision := s.rules.Detect(page.Runs)
		if decision.Detected {
			if sec, ok := acc.close(); ok {
				out = append(out, sec)
			} else {
				s.logger.Debug("dropping empty section",
					zap.String("document", doc.Name), zap.String("title", acc.title))
			}
			s.logger.Debug("heading detected",
				zap.String("document", doc.Name), zap.Int("page", pageNumber), zap.String("heading", decision.Heading))
			acc.open(decision.Heading, pageNumber, text)
			continue
		}
		acc.append(text)
	}
	if sec, ok := acc.close(); ok {
		out = append(out, sec)
	}
	return out
}

// accumulator holds the single open section while pages are scanned.
type accumulator struct {
	document string
	title    string
	page     int
	text     strings.Builder
}

func newAccumulator(document string) *accumulator {
	return &accumulator{document: document}
}

func (a *accumulator) open(title string, page int, text string) {
	a.title = title
	a.page = page
	a.text.Reset()
	a.text.WriteString(text)
}

func (a *accumulator) append(text string) {
	if text == "" {
		return
	}
	if a.text.Len() > 0 {
		a.text.WriteByte('\n')
	}
	a.text.WriteString(text)
}

// close returns the open section and whether it has non-blank text.
func (a *accumulator) close() (models.Section, bool) {
	text := a.text.String()
	if strings.TrimSpace(text) == "" {
		return models.Section{}, false
	}
	return models.Section{
		Document:   a.document,
		Title:      a.title,
		Text:       text,
		PageNumber: a.page,
	}, true
}
