package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hyperjump/sift/internal/models"
	"golang.org/x/net/html"
)

// htmlPages parses HTML and pages it at <h1>/<h2>, like Markdown.
func htmlPages(content []byte) ([]models.Page, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var b pageBuilder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.line(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "head", "noscript":
				return
			case "h1", "h2":
				if title := textContent(n); title != "" {
					b.heading(title, int(n.Data[1]-'0'))
				}
				return
			case "p", "li", "td", "th", "blockquote", "pre", "h3", "h4", "h5", "h6", "dt", "dd", "caption":
				b.line(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return b.result(), nil
}

// textContent returns the whitespace-normalized text under n.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
