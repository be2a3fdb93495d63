package extract

import (
	"regexp"
	"strings"

	"github.com/hyperjump/sift/internal/models"
)

var odsRow = regexp.MustCompile(`(?s)<table:table-row\b[^>]*>(.*?)</table:table-row>`)

// odsPages returns the spreadsheet as a single page, one line per row with
// cells separated by tabs.
func odsPages(content []byte) ([]models.Page, error) {
	xml, err := odfContent(content, "ODS")
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, row := range odsRow.FindAllStringSubmatch(xml, -1) {
		var cells []string
		for _, b := range odfBlock.FindAllStringSubmatch(row[1], -1) {
			if text := xmlText(b[2]); text != "" {
				cells = append(cells, text)
			}
		}
		if len(cells) > 0 {
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return []models.Page{textPage(strings.Join(lines, "\n"))}, nil
}
