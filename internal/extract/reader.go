// Package extract reads documents into pages of plain text and styled runs.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"go.uber.org/zap"
)

// Reader turns document files into models.Document values.
type Reader struct {
	validatePDF bool
	logger      *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithPDFValidation runs pdfcpu structural validation before parsing PDFs.
func WithPDFValidation(enabled bool) Option {
	return func(r *Reader) {
		r.validatePDF = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReader returns a new Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type pageParser func(r *Reader, content []byte) ([]models.Page, error)

var parsers = map[string]pageParser{
	".pdf":  (*Reader).pdfPages,
	".pptx": func(_ *Reader, c []byte) ([]models.Page, error) { return pptxPages(c) },
	".odp":  func(_ *Reader, c []byte) ([]models.Page, error) { return odpPages(c) },
	".xlsx": func(_ *Reader, c []byte) ([]models.Page, error) { return excelPages(c) },
	".docx": func(_ *Reader, c []byte) ([]models.Page, error) { return docxPages(c) },
	".ods":  func(_ *Reader, c []byte) ([]models.Page, error) { return odsPages(c) },
	".odt":  func(_ *Reader, c []byte) ([]models.Page, error) { return catPages(c) },
	".rtf":  func(_ *Reader, c []byte) ([]models.Page, error) { return catPages(c) },
	".md":   func(_ *Reader, c []byte) ([]models.Page, error) { return markdownPages(c) },
	".html": func(_ *Reader, c []byte) ([]models.Page, error) { return htmlPages(c) },
	".htm":  func(_ *Reader, c []byte) ([]models.Page, error) { return htmlPages(c) },
	".txt":  func(_ *Reader, c []byte) ([]models.Page, error) { return plainPages(c), nil },
	".rst":  func(_ *Reader, c []byte) ([]models.Page, error) { return plainPages(c), nil },
}

// SupportedExtensions returns the extensions with a dedicated parser, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(parsers))
	for ext := range parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Read loads the file at path.
func (r *Reader) Read(path string) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	doc, err := r.ReadBytes(filepath.Base(path), content)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// ReadBytes parses content using the extension of name. Unknown extensions are
// read as plain text.
func (r *Reader) ReadBytes(name string, content []byte) (*models.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	parse, ok := parsers[ext]
	if !ok {
		parse = func(_ *Reader, c []byte) ([]models.Page, error) { return plainPages(c), nil }
	}
	pages, err := parse(r, content)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	r.logger.Debug("extracted document",
		zap.String("document", name),
		zap.Int("pages", len(pages)),
	)
	return &models.Document{Name: filepath.Base(name), Pages: pages}, nil
}

// textPage is a page without style information.
func textPage(text string) models.Page {
	return models.Page{Text: text}
}

// headingRun synthesizes a bold run for formats whose headings are structural.
func headingRun(text string, level int) models.StyledRun {
	size := 14.0
	if level <= 1 {
		size = 16.0
	}
	return models.StyledRun{Text: text, FontSize: size, FontName: "Synthetic-Bold"}
}
