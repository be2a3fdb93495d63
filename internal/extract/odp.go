package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperjump/sift/internal/models"
)

// odfContentPath is the main content part of OpenDocument packages.
const odfContentPath = "content.xml"

var (
	odpPage = regexp.MustCompile(`(?s)<draw:page\b[^>]*>(.*?)</draw:page>`)
	// Paragraphs and headings in document order; group 1 is the element name.
	// Self-closing <text:p/> elements do not match.
	odfBlock = regexp.MustCompile(`(?s)<text:(p|h)(?:\s[^>]*[^/])?>(.*?)</text:(?:p|h)>`)
	odfLevel = regexp.MustCompile(`^<text:h\b[^>]*text:outline-level="(\d)"`)
)

func odfContent(content []byte, format string) (string, error) {
	zr, err := openZip(content, format)
	if err != nil {
		return "", err
	}
	data, err := readZipEntry(zr, odfContentPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", format, err)
	}
	if data == nil {
		return "", fmt.Errorf("%s: %s not found", format, odfContentPath)
	}
	return string(data), nil
}

// odpPages returns one page per draw:page. text:h elements become heading runs.
func odpPages(content []byte) ([]models.Page, error) {
	xml, err := odfContent(content, "ODP")
	if err != nil {
		return nil, err
	}
	blocks := odpPage.FindAllStringSubmatch(xml, -1)
	if len(blocks) == 0 {
		return []models.Page{odfPage(xml)}, nil
	}
	pages := make([]models.Page, len(blocks))
	for i, b := range blocks {
		pages[i] = odfPage(b[1])
	}
	return pages, nil
}

func odfPage(xml string) models.Page {
	var lines []string
	var runs []models.StyledRun
	for _, loc := range odfBlock.FindAllStringSubmatchIndex(xml, -1) {
		element := xml[loc[2]:loc[3]]
		text := xmlText(xml[loc[4]:loc[5]])
		if text == "" {
			continue
		}
		lines = append(lines, text)
		if element == "h" {
			level := 1
			if m := odfLevel.FindStringSubmatch(xml[loc[0]:loc[1]]); m != nil {
				level = int(m[1][0] - '0')
			}
			runs = append(runs, headingRun(text, level))
		}
	}
	return models.Page{Text: strings.Join(lines, "\n"), Runs: runs}
}
