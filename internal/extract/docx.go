package extract

import (
	"archive/zip"
	"fmt"
	"regexp"
	"strings"

	"github.com/hyperjump/sift/internal/models"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// contentTypesPath is the path to [Content_Types].xml in OOXML packages.
const contentTypesPath = "[Content_Types].xml"

// docxMainContentType is the content type for the main document in DOCX files.
const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

var (
	// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t>.
	wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	// <w:p> with optional attributes; <w:pPr> does not match.
	docxParagraph = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?>(.*?)</w:p>`)
	docxStyle     = regexp.MustCompile(`<w:pStyle\s+w:val="([^"]+)"`)

	// PartName and ContentType may appear in either order.
	partNameRe  = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// findDocxMainDocumentPath finds the main document path from [Content_Types].xml.
// Returns the path without leading slash, or empty string if not found.
func findDocxMainDocumentPath(zr *zip.Reader) string {
	data, err := readZipEntry(zr, contentTypesPath)
	if err != nil || data == nil {
		return ""
	}
	content := string(data)
	if matches := partNameRe.FindStringSubmatch(content); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "/")
	}
	if matches := partNameRe2.FindStringSubmatch(content); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "/")
	}
	return ""
}

// docxPages returns the document as a single page, one line per paragraph.
// Title and Heading1/Heading2 paragraphs become heading runs.
// Text is read from <w:t> nodes directly because paragraphs in real files carry
// attributes (<w:p w:rsidR="...">) that simpler extractors miss.
func docxPages(content []byte) ([]models.Page, error) {
	zr, err := openZip(content, "DOCX")
	if err != nil {
		return nil, err
	}
	docPath := findDocxMainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
	}
	docXML, err := readZipEntry(zr, docPath)
	if err != nil {
		return nil, fmt.Errorf("DOCX: %w", err)
	}
	if docXML == nil {
		return nil, fmt.Errorf("DOCX: %s not found", docPath)
	}

	var lines []string
	var runs []models.StyledRun
	for _, para := range docxParagraph.FindAllStringSubmatch(string(docXML), -1) {
		var sb strings.Builder
		for _, t := range wtTag.FindAllStringSubmatch(para[1], -1) {
			sb.WriteString(t[1])
		}
		text := xmlText(sb.String())
		if text == "" {
			continue
		}
		lines = append(lines, text)
		if m := docxStyle.FindStringSubmatch(para[1]); m != nil {
			switch strings.ToLower(m[1]) {
			case "title", "heading1":
				runs = append(runs, headingRun(text, 1))
			case "heading2":
				runs = append(runs, headingRun(text, 2))
			}
		}
	}
	return []models.Page{{Text: strings.Join(lines, "\n"), Runs: runs}}, nil
}
