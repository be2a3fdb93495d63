package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

func openZip(content []byte, format string) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("%s: not a zip: %w", format, err)
	}
	return zr, nil
}

// readZipEntry returns the contents of the named entry, or nil if it is absent.
func readZipEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, nil
}

var (
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
	odfSpace     = regexp.MustCompile(`<text:s\b[^>]*/>`)
	odfTab       = regexp.MustCompile(`<text:tab\b[^>]*/>`)
	odfLineBreak = regexp.MustCompile(`<text:line-break\b[^>]*/>`)
)

// xmlText strips markup from an XML fragment and decodes entities.
func xmlText(fragment string) string {
	fragment = odfSpace.ReplaceAllString(fragment, " ")
	fragment = odfTab.ReplaceAllString(fragment, "\t")
	fragment = odfLineBreak.ReplaceAllString(fragment, "\n")
	return strings.TrimSpace(html.UnescapeString(xmlTag.ReplaceAllString(fragment, "")))
}
