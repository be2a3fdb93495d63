package extract

import (
	"bytes"
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// pageBuilder accumulates pages for formats without physical pages. A level 1
// or 2 heading starts a new page that opens with a synthesized heading run.
type pageBuilder struct {
	pages []models.Page
	lines []string
	runs  []models.StyledRun
}

func (b *pageBuilder) heading(title string, level int) {
	b.flush()
	b.lines = []string{title}
	b.runs = []models.StyledRun{headingRun(title, level)}
}

func (b *pageBuilder) line(s string) {
	if s = strings.TrimSpace(s); s != "" {
		b.lines = append(b.lines, s)
	}
}

func (b *pageBuilder) flush() {
	if len(b.lines) == 0 {
		return
	}
	b.pages = append(b.pages, models.Page{Text: strings.Join(b.lines, "\n"), Runs: b.runs})
	b.lines, b.runs = nil, nil
}

func (b *pageBuilder) result() []models.Page {
	b.flush()
	return b.pages
}

// markdownPages parses Markdown with goldmark and pages it at H1/H2 headings.
func markdownPages(content []byte) ([]models.Page, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var b pageBuilder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			title := markdownText(h, content)
			if h.Level <= 2 && title != "" {
				b.heading(title, h.Level)
				continue
			}
			b.line(title)
			continue
		}
		b.line(markdownText(n, content))
	}
	return b.result(), nil
}

// markdownText returns the text of a block. Code and raw HTML blocks keep their
// source lines; other blocks are rebuilt from their inline children.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			if c.Type() == ast.TypeBlock && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(markdownText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
