package extract

import (
	"fmt"

	"github.com/hyperjump/sift/internal/models"
	"github.com/lu4p/cat"
)

// catPages reads ODT and RTF documents as a single page.
func catPages(content []byte) ([]models.Page, error) {
	text, err := cat.FromBytes(content)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return []models.Page{textPage(text)}, nil
}
