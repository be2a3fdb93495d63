package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperjump/sift/internal/models"
)

// pptxSlideName matches slide parts such as ppt/slides/slide12.xml.
var pptxSlideName = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

var (
	// <a:p> with optional attributes; <a:pPr> does not match.
	pptxParagraph = regexp.MustCompile(`(?s)<a:p(?:\s[^>]*)?>(.*?)</a:p>`)
	atTag         = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)
	pptxSize      = regexp.MustCompile(`\ssz="(\d+)"`)
	pptxBold      = regexp.MustCompile(`\sb="(1|true)"`)
)

// pptxPages returns one page per slide in slide-number order. Each paragraph
// becomes a run carrying its first font size (in points) and boldness.
func pptxPages(content []byte) ([]models.Page, error) {
	zr, err := openZip(content, "PPTX")
	if err != nil {
		return nil, err
	}
	type slide struct {
		num  int
		name string
	}
	var slides []slide
	for _, f := range zr.File {
		m := pptxSlideName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: n, name: f.Name})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	pages := make([]models.Page, 0, len(slides))
	for _, s := range slides {
		data, err := readZipEntry(zr, s.name)
		if err != nil {
			return nil, fmt.Errorf("PPTX: %w", err)
		}
		pages = append(pages, pptxSlidePage(string(data)))
	}
	return pages, nil
}

func pptxSlidePage(xml string) models.Page {
	var lines []string
	var runs []models.StyledRun
	for _, para := range pptxParagraph.FindAllStringSubmatch(xml, -1) {
		var sb strings.Builder
		for _, t := range atTag.FindAllStringSubmatch(para[1], -1) {
			sb.WriteString(t[1])
		}
		text := xmlText(sb.String())
		if text == "" {
			continue
		}
		lines = append(lines, text)

		run := models.StyledRun{Text: text, FontName: "Regular"}
		if m := pptxSize.FindStringSubmatch(para[1]); m != nil {
			hundredths, _ := strconv.Atoi(m[1])
			run.FontSize = float64(hundredths) / 100
		}
		if pptxBold.MatchString(para[1]) {
			run.FontName = "Bold"
		}
		runs = append(runs, run)
	}
	return models.Page{Text: strings.Join(lines, "\n"), Runs: runs}
}
