package extract

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// Glyphs further apart than this fraction of the font size are separated by a space.
const wordGapRatio = 0.15

// A vertical move larger than this fraction of the font size starts a new line.
const lineBreakRatio = 0.5

func validatePDF(content []byte) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(content), conf); err != nil {
		return fmt.Errorf("validate PDF: %w", err)
	}
	return nil
}

// pdfPages returns one page per PDF page. Null pages are kept empty so page
// numbers stay aligned with the source. The parser panics on some malformed
// files; that is reported as an error.
func (r *Reader) pdfPages(content []byte) (pages []models.Page, err error) {
	if r.validatePDF {
		if err := validatePDF(content); err != nil {
			return nil, err
		}
	}
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	pr, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := pr.NumPage()
	pages = make([]models.Page, numPages)
	for i := 1; i <= numPages; i++ {
		p := pr.Page(i)
		if p.V.IsNull() {
			continue
		}
		runs := styledRuns(p.Content().Text)
		text, err := p.GetPlainText(nil)
		if err != nil {
			r.logger.Debug("plain text failed, using glyph text",
				zap.Int("page", i),
				zap.Error(err),
			)
			text = runsText(runs)
		}
		pages[i-1] = models.Page{Text: text, Runs: runs}
	}
	return pages, nil
}

// styledRuns groups positioned glyphs into runs of uniform font and size.
// A new run starts on a font change, a size change, or a new line.
func styledRuns(glyphs []pdf.Text) []models.StyledRun {
	var runs []models.StyledRun
	var cur *models.StyledRun
	var sb strings.Builder
	var lastX, lastY, lastW float64

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = sb.String()
		if strings.TrimSpace(cur.Text) != "" {
			runs = append(runs, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		size := g.FontSize
		newLine := cur != nil && math.Abs(g.Y-lastY) > lineBreakRatio*math.Max(size, 1)
		if cur == nil || newLine || g.Font != cur.FontName || g.FontSize != cur.FontSize {
			flush()
			cur = &models.StyledRun{FontName: g.Font, FontSize: g.FontSize}
		} else if gap := g.X - (lastX + lastW); gap > wordGapRatio*size && !strings.HasPrefix(g.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		lastX, lastY, lastW = g.X, g.Y, g.W
	}
	flush()
	return runs
}

func runsText(runs []models.StyledRun) string {
	parts := make([]string, len(runs))
	for i, run := range runs {
		parts[i] = run.Text
	}
	return strings.Join(parts, "\n")
}
