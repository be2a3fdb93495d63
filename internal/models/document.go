// Package models defines core data structures for documents, sections, and pipeline results.
package models

import (
	"path/filepath"
	"strings"
)

// StyledRun is a contiguous span of text set in one font at one size.
type StyledRun struct {
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size"`
	FontName string  `json:"font_name"`
}

// Page is one page of a document: its plain text and its styled runs in reading order.
type Page struct {
	Text string      `json:"text"`
	Runs []StyledRun `json:"runs,omitempty"`
}

// Document is a paginated document as returned by the reader.
type Document struct {
	// Name is the file name including extension (e.g. "report.pdf").
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	Pages []Page `json:"pages"`
}

// BaseName returns the document name without its extension.
func (d *Document) BaseName() string {
	return BaseName(d.Name)
}

// BaseName strips directory and extension from name.
func BaseName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
