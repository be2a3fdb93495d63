package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/sift/internal/models"
)

// plainPages splits text on form feeds, one page per segment. Invalid UTF-8
// sequences are replaced with the replacement character.
func plainPages(content []byte) []models.Page {
	s := string(content)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\ufffd")
	}
	parts := strings.Split(s, "\f")
	pages := make([]models.Page, len(parts))
	for i, p := range parts {
		pages[i] = textPage(p)
	}
	return pages
}
