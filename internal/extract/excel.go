package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"github.com/xuri/excelize/v2"
)

// excelPages returns one page per non-empty sheet. Rows become tab-separated
// lines with trailing blank cells dropped. A single-cell first row is treated
// as the sheet's title.
func excelPages(content []byte) ([]models.Page, error) {
	book, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	var pages []models.Page
	for _, sheet := range book.GetSheetList() {
		page, err := sheetPage(book, sheet)
		if err != nil {
			return nil, err
		}
		if page.Text != "" {
			pages = append(pages, page)
		}
	}
	return pages, nil
}

func sheetPage(book *excelize.File, sheet string) (models.Page, error) {
	rows, err := book.Rows(sheet)
	if err != nil {
		return models.Page{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var page models.Page
	var lines []string
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return models.Page{}, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		cells = trimBlankCells(cells)
		if len(cells) == 0 {
			continue
		}
		line := strings.Join(cells, "\t")
		if len(lines) == 0 && len(cells) == 1 {
			page.Runs = []models.StyledRun{headingRun(line, 2)}
		}
		lines = append(lines, line)
	}
	if err := rows.Error(); err != nil {
		return models.Page{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	page.Text = strings.Join(lines, "\n")
	return page, nil
}

// trimBlankCells strips surrounding space from each cell and drops blank cells
// at the end of the row.
func trimBlankCells(cells []string) []string {
	end := 0
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
		if cells[i] != "" {
			end = i + 1
		}
	}
	return cells[:end]
}
